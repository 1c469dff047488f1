// Package client is a Go wrapper over the contacts HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/contacts-server/internal/model"
)

// Client talks to a contacts server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// New creates a Client for the server at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type contactPayload struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	JobTitle  string     `json:"jobTitle"`
}

func fromFields(f model.ContactFields) contactPayload {
	return contactPayload{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Company:   f.Company,
		JobTitle:  f.JobTitle,
	}
}

func (p contactPayload) contact() model.Contact {
	c := model.Contact{ContactFields: model.ContactFields{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Company:   p.Company,
		JobTitle:  p.JobTitle,
	}}
	if p.ID != nil {
		c.ID = *p.ID
	}
	return c
}

// List returns all contacts in server order.
func (c *Client) List(ctx context.Context) ([]model.Contact, error) {
	var payload []contactPayload
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]model.Contact, 0, len(payload))
	for _, p := range payload {
		contacts = append(contacts, p.contact())
	}
	return contacts, nil
}

// Get returns a single contact.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	var payload contactPayload
	if err := c.do(ctx, http.MethodGet, "/api/contacts/"+id.String(), nil, &payload); err != nil {
		return model.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return payload.contact(), nil
}

// Create validates fields locally and submits them. A local validation
// failure is returned as *model.ValidationError without a request being sent.
func (c *Client) Create(ctx context.Context, fields model.ContactFields) (model.Contact, error) {
	if err := fields.Validate(); err != nil {
		return model.Contact{}, err
	}

	var payload contactPayload
	if err := c.do(ctx, http.MethodPost, "/api/contacts", fromFields(fields), &payload); err != nil {
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return payload.contact(), nil
}

// Update replaces all fields of the contact with the given id.
func (c *Client) Update(ctx context.Context, id uuid.UUID, fields model.ContactFields) (model.Contact, error) {
	if err := fields.Validate(); err != nil {
		return model.Contact{}, err
	}

	var payload contactPayload
	if err := c.do(ctx, http.MethodPut, "/api/contacts/"+id.String(), fromFields(fields), &payload); err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return payload.contact(), nil
}

// Delete removes the contact with the given id.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/api/contacts/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error   string             `json:"error"`
		Details []model.FieldError `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	apiErr.Message, apiErr.Details = body.Error, body.Details
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
