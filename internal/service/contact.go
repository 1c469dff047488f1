package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/contacts-server/internal/logger"
	"github.com/dtroode/contacts-server/internal/model"
)

// Contact validates contact writes and runs each request against the store
// as exactly one store call. Mutations are serialized by mu so that
// "change rows, then persist" never interleaves between requests.
type Contact struct {
	contactStore model.ContactStore
	logger       *logger.Logger
	mu           sync.RWMutex
}

func NewContact(
	contactStore model.ContactStore,
	logger *logger.Logger,
) *Contact {
	return &Contact{
		contactStore: contactStore,
		logger:       logger,
	}
}

func (s *Contact) ListContacts(ctx context.Context) ([]model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts, err := s.contactStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (s *Contact) GetContact(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, err := s.contactStore.Get(ctx, id)
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

func (s *Contact) CreateContact(ctx context.Context, fields model.ContactFields) (model.Contact, error) {
	if err := fields.Validate(); err != nil {
		return model.Contact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, err := s.contactStore.Create(ctx, model.Contact{ContactFields: fields})
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Debug("Contact service: contact created", "id", contact.ID)

	return contact, nil
}

func (s *Contact) UpdateContact(ctx context.Context, id uuid.UUID, fields model.ContactFields) (model.Contact, error) {
	if err := fields.Validate(); err != nil {
		return model.Contact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, err := s.contactStore.Update(ctx, model.Contact{ID: id, ContactFields: fields})
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	s.logger.Debug("Contact service: contact updated", "id", contact.ID)

	return contact, nil
}

func (s *Contact) DeleteContact(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.contactStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	s.logger.Debug("Contact service: contact deleted", "id", id)

	return nil
}

// Ping reports whether the store is reachable.
func (s *Contact) Ping(ctx context.Context) error {
	return s.contactStore.Ping(ctx)
}
