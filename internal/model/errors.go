package model

import "errors"

var (
	// ErrNotFound is returned when no contact matches the requested id.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicateEmail is returned when a write would make two contacts share an email.
	ErrDuplicateEmail = errors.New("email already exists")
)
