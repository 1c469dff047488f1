package client

import (
	"fmt"
	"net/http"

	"github.com/dtroode/contacts-server/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    []model.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.StatusCode, e.Message)
}

// Is maps response statuses onto the model sentinels so callers can use
// errors.Is(err, model.ErrNotFound) regardless of where the error came from.
func (e *APIError) Is(target error) bool {
	switch target {
	case model.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case model.ErrDuplicateEmail:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// As exposes a 400 response with field details as *model.ValidationError.
func (e *APIError) As(target any) bool {
	verr, ok := target.(**model.ValidationError)
	if !ok || e.StatusCode != http.StatusBadRequest || len(e.Details) == 0 {
		return false
	}
	*verr = &model.ValidationError{Fields: e.Details}
	return true
}
