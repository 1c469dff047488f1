package handler

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/dtroode/contacts-server/internal/logger"
	"github.com/dtroode/contacts-server/internal/model"
)

// ContactService defines business operations for contact management.
type ContactService interface {
	ListContacts(ctx context.Context) ([]model.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (model.Contact, error)
	CreateContact(ctx context.Context, fields model.ContactFields) (model.Contact, error)
	UpdateContact(ctx context.Context, id uuid.UUID, fields model.ContactFields) (model.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
}

// Contact handles HTTP endpoints for contacts.
type Contact struct {
	contactService ContactService
	logger         *logger.Logger
}

// NewContact creates a new Contact handler.
func NewContact(contactService ContactService, logger *logger.Logger) *Contact {
	return &Contact{
		contactService: contactService,
		logger:         logger,
	}
}

// ContactModel is a contact as returned by the API.
type ContactModel struct {
	ID        string `json:"id" format:"uuid" readOnly:"true" doc:"Server-generated contact id"`
	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName" example:"Doe"`
	Email     string `json:"email" example:"john.doe@example.com"`
	Phone     string `json:"phone" example:"1234567890"`
	Company   string `json:"company" example:"Acme"`
	JobTitle  string `json:"jobTitle" example:"Engineer"`
}

// ContactBody is the payload of create and update requests. Fields are
// checked by the contact rule set rather than by the schema, so that every
// failure is reported with the same per-field messages.
type ContactBody struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	FirstName string   `json:"firstName,omitempty" example:"John" doc:"At least 2 characters"`
	LastName  string   `json:"lastName,omitempty" example:"Doe" doc:"At least 2 characters"`
	Email     string   `json:"email,omitempty" example:"john.doe@example.com" doc:"Unique email address"`
	Phone     string   `json:"phone,omitempty" example:"1234567890" doc:"At least 10 characters"`
	Company   string   `json:"company,omitempty" example:"Acme" doc:"At least 2 characters"`
	JobTitle  string   `json:"jobTitle,omitempty" example:"Engineer" doc:"At least 2 characters"`
}

func (b ContactBody) fields() model.ContactFields {
	return model.ContactFields{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		Company:   b.Company,
		JobTitle:  b.JobTitle,
	}
}

func toContactModel(c model.Contact) ContactModel {
	return ContactModel{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		JobTitle:  c.JobTitle,
	}
}

// Register adds the contact operations to api.
func (h *Contact) Register(api huma.API) {
	tags := []string{"Contacts"}

	huma.Register(api, huma.Operation{
		OperationID: "list-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts",
		Summary:     "List contacts ordered by first and last name",
		Tags:        tags,
		Errors:      []int{http.StatusInternalServerError},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-contact",
		Method:      http.MethodGet,
		Path:        "/contacts/{id}",
		Summary:     "Get a contact",
		Tags:        tags,
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-contact",
		Method:        http.MethodPost,
		Path:          "/contacts",
		Summary:       "Create a contact",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError},
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "update-contact",
		Method:      http.MethodPut,
		Path:        "/contacts/{id}",
		Summary:     "Replace all fields of a contact",
		Tags:        tags,
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-contact",
		Method:        http.MethodDelete,
		Path:          "/contacts/{id}",
		Summary:       "Delete a contact",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.delete)
}

type ContactIDInput struct {
	ID string `path:"id" doc:"Contact id"`
}

type ContactWriteInput struct {
	Body ContactBody
}

type ContactReplaceInput struct {
	ID   string `path:"id" doc:"Contact id"`
	Body ContactBody
}

type ContactsListOutput struct {
	Body []ContactModel
}

type ContactOutput struct {
	Body ContactModel
}

func (h *Contact) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.contactService.ListContacts(ctx)
	if err != nil {
		h.logger.Error("Contact handler: list contacts failed", "error", err)
		return nil, handleError(err)
	}

	body := make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		body = append(body, toContactModel(contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

func (h *Contact) get(ctx context.Context, input *ContactIDInput) (*ContactOutput, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, handleError(err)
	}

	contact, err := h.contactService.GetContact(ctx, id)
	if err != nil {
		h.logError("get contact", err, "id", input.ID)
		return nil, handleError(err)
	}

	return &ContactOutput{Body: toContactModel(contact)}, nil
}

func (h *Contact) create(ctx context.Context, input *ContactWriteInput) (*ContactOutput, error) {
	contact, err := h.contactService.CreateContact(ctx, input.Body.fields())
	if err != nil {
		h.logError("create contact", err)
		return nil, handleError(err)
	}

	return &ContactOutput{Body: toContactModel(contact)}, nil
}

func (h *Contact) update(ctx context.Context, input *ContactReplaceInput) (*ContactOutput, error) {
	fields := input.Body.fields()
	// Validation comes first: a bad payload is a 400 even for an unknown id.
	if err := fields.Validate(); err != nil {
		return nil, handleError(err)
	}

	id, err := parseID(input.ID)
	if err != nil {
		return nil, handleError(err)
	}

	contact, err := h.contactService.UpdateContact(ctx, id, fields)
	if err != nil {
		h.logError("update contact", err, "id", input.ID)
		return nil, handleError(err)
	}

	return &ContactOutput{Body: toContactModel(contact)}, nil
}

func (h *Contact) delete(ctx context.Context, input *ContactIDInput) (*struct{}, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.contactService.DeleteContact(ctx, id); err != nil {
		h.logError("delete contact", err, "id", input.ID)
		return nil, handleError(err)
	}

	return nil, nil
}

// parseID maps ids that are not UUIDs to ErrNotFound: no such contact can exist.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.ErrNotFound
	}
	return id, nil
}

func (h *Contact) logError(op string, err error, args ...any) {
	args = append(args, "error", err)
	if handleError(err).(huma.StatusError).GetStatus() >= http.StatusInternalServerError {
		h.logger.Error("Contact handler: "+op+" failed", args...)
		return
	}
	h.logger.Warn("Contact handler: "+op+" rejected", args...)
}
