package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dtroode/contacts-server/internal/model"
)

const (
	msgValidation     = "Validation failed"
	msgNotFound       = "Contact not found"
	msgDuplicateEmail = "Email already exists"
	msgInternal       = "Internal server error"
)

func init() {
	huma.NewError = newError
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	status  int
	Message string             `json:"error" doc:"Error message"`
	Details []model.FieldError `json:"details,omitempty" doc:"Per-field validation failures"`
}

var _ huma.StatusError = (*ErrorBody)(nil)

func (e *ErrorBody) Error() string  { return e.Message }
func (e *ErrorBody) GetStatus() int { return e.status }

// newError replaces huma.NewError so that framework errors (malformed JSON,
// wrong JSON types, panics) share the ErrorBody shape. Request parsing
// failures become 400, server failures never expose their cause.
func newError(status int, msg string, errs ...error) huma.StatusError {
	switch {
	case status >= http.StatusInternalServerError:
		return &ErrorBody{status: status, Message: msgInternal}
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		status, msg = http.StatusBadRequest, msgValidation
	}

	body := &ErrorBody{status: status, Message: msg}
	for _, err := range errs {
		var detailer huma.ErrorDetailer
		if !errors.As(err, &detailer) {
			continue
		}
		detail := detailer.ErrorDetail()
		field := strings.TrimPrefix(detail.Location, "body.")
		body.Details = append(body.Details, model.FieldError{Field: field, Message: detail.Message})
	}

	return body
}

func handleError(err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return &ErrorBody{status: http.StatusBadRequest, Message: msgValidation, Details: verr.Fields}
	case errors.Is(err, model.ErrNotFound):
		return huma.Error404NotFound(msgNotFound)
	case errors.Is(err, model.ErrDuplicateEmail):
		return huma.Error409Conflict(msgDuplicateEmail)
	default:
		return huma.Error500InternalServerError(msgInternal)
	}
}
