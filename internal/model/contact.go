package model

import (
	"context"

	"github.com/google/uuid"
)

// ContactStore defines persistence operations for contacts.
type ContactStore interface {
	List(ctx context.Context) ([]Contact, error)
	Get(ctx context.Context, id uuid.UUID) (Contact, error)
	Create(ctx context.Context, contact Contact) (Contact, error)
	Update(ctx context.Context, contact Contact) (Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// Contact represents a stored contact record.
type Contact struct {
	ID uuid.UUID
	ContactFields
}

// ContactFields holds the user-editable part of a contact.
// POST and PUT both carry a full set of fields, there is no partial update.
type ContactFields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	JobTitle  string
}

// Less orders contacts by first name, then last name, bytewise.
func (c Contact) Less(other Contact) bool {
	if c.FirstName != other.FirstName {
		return c.FirstName < other.FirstName
	}
	return c.LastName < other.LastName
}
