package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/contacts-server/internal/model"
	"github.com/dtroode/contacts-server/internal/testutil"
)

// MockContactStore mocks the ContactStore interface
type MockContactStore struct {
	mock.Mock
}

func (m *MockContactStore) List(ctx context.Context) ([]model.Contact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Contact), args.Error(1)
}

func (m *MockContactStore) Get(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Contact), args.Error(1)
}

func (m *MockContactStore) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	args := m.Called(ctx, contact)
	return args.Get(0).(model.Contact), args.Error(1)
}

func (m *MockContactStore) Update(ctx context.Context, contact model.Contact) (model.Contact, error) {
	args := m.Called(ctx, contact)
	return args.Get(0).(model.Contact), args.Error(1)
}

func (m *MockContactStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func validFields() model.ContactFields {
	return model.ContactFields{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "j@x.com",
		Phone:     "1234567890",
		Company:   "Acme",
		JobTitle:  "Eng",
	}
}

func TestContactService_CreateContact(t *testing.T) {
	tests := []struct {
		name      string
		fields    model.ContactFields
		mockSetup func(*MockContactStore)
		wantErr   error
		wantValid bool
	}{
		{
			name:   "successful creation",
			fields: validFields(),
			mockSetup: func(store *MockContactStore) {
				store.On("Create", mock.Anything, model.Contact{ContactFields: validFields()}).
					Return(model.Contact{ID: uuid.New(), ContactFields: validFields()}, nil)
			},
		},
		{
			name:      "invalid fields never reach the store",
			fields:    model.ContactFields{FirstName: "J"},
			mockSetup: func(*MockContactStore) {},
			wantValid: true,
		},
		{
			name:   "duplicate email",
			fields: validFields(),
			mockSetup: func(store *MockContactStore) {
				store.On("Create", mock.Anything, mock.Anything).Return(model.Contact{}, model.ErrDuplicateEmail)
			},
			wantErr: model.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockContactStore)
			tt.mockSetup(store)
			svc := NewContact(store, testutil.MakeNoopLogger())

			got, err := svc.CreateContact(context.Background(), tt.fields)
			switch {
			case tt.wantValid:
				var verr *model.ValidationError
				assert.True(t, errors.As(err, &verr))
				store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, got.ID)
				assert.Equal(t, tt.fields, got.ContactFields)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestContactService_UpdateContact(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		fields    model.ContactFields
		mockSetup func(*MockContactStore)
		wantErr   error
		wantValid bool
	}{
		{
			name:   "successful update keeps id",
			fields: validFields(),
			mockSetup: func(store *MockContactStore) {
				c := model.Contact{ID: id, ContactFields: validFields()}
				store.On("Update", mock.Anything, c).Return(c, nil)
			},
		},
		{
			name:      "invalid email",
			fields:    func() model.ContactFields { f := validFields(); f.Email = "nope"; return f }(),
			mockSetup: func(*MockContactStore) {},
			wantValid: true,
		},
		{
			name:   "unknown id",
			fields: validFields(),
			mockSetup: func(store *MockContactStore) {
				store.On("Update", mock.Anything, mock.Anything).Return(model.Contact{}, model.ErrNotFound)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name:   "email used by another contact",
			fields: validFields(),
			mockSetup: func(store *MockContactStore) {
				store.On("Update", mock.Anything, mock.Anything).Return(model.Contact{}, model.ErrDuplicateEmail)
			},
			wantErr: model.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockContactStore)
			tt.mockSetup(store)
			svc := NewContact(store, testutil.MakeNoopLogger())

			got, err := svc.UpdateContact(context.Background(), id, tt.fields)
			switch {
			case tt.wantValid:
				var verr *model.ValidationError
				assert.True(t, errors.As(err, &verr))
				store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestContactService_DeleteContact(t *testing.T) {
	id := uuid.New()

	store := new(MockContactStore)
	store.On("Delete", mock.Anything, id).Return(nil).Once()
	store.On("Delete", mock.Anything, id).Return(model.ErrNotFound).Once()
	svc := NewContact(store, testutil.MakeNoopLogger())

	assert.NoError(t, svc.DeleteContact(context.Background(), id))
	assert.ErrorIs(t, svc.DeleteContact(context.Background(), id), model.ErrNotFound)
	store.AssertExpectations(t)
}

func TestContactService_ListAndGet(t *testing.T) {
	c := model.Contact{ID: uuid.New(), ContactFields: validFields()}
	boom := errors.New("boom")

	store := new(MockContactStore)
	store.On("List", mock.Anything).Return([]model.Contact{c}, nil).Once()
	store.On("List", mock.Anything).Return([]model.Contact(nil), boom).Once()
	store.On("Get", mock.Anything, c.ID).Return(c, nil)
	svc := NewContact(store, testutil.MakeNoopLogger())

	list, err := svc.ListContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{c}, list)

	_, err = svc.ListContacts(context.Background())
	assert.ErrorIs(t, err, boom)

	got, err := svc.GetContact(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

// overlapStore records whether two mutations were ever in flight at once.
type overlapStore struct {
	MockContactStore
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (s *overlapStore) mutate() {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	s.inFlight.Add(-1)
}

func (s *overlapStore) Create(_ context.Context, c model.Contact) (model.Contact, error) {
	s.mutate()
	c.ID = uuid.New()
	return c, nil
}

func (s *overlapStore) Delete(context.Context, uuid.UUID) error {
	s.mutate()
	return nil
}

func TestContactService_MutationsAreSerialized(t *testing.T) {
	store := &overlapStore{}
	svc := NewContact(store, testutil.MakeNoopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.CreateContact(context.Background(), validFields())
		}()
		go func() {
			defer wg.Done()
			_ = svc.DeleteContact(context.Background(), uuid.New())
		}()
	}
	wg.Wait()

	assert.False(t, store.overlap.Load())
}
