package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dtroode/contacts-server/internal/model"
)

type codedError struct{ code int }

func (e codedError) Error() string { return "constraint failed" }
func (e codedError) Code() int     { return e.code }

func newMockRepository(t *testing.T) (*ContactRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS contacts")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	conn, err := newConnection(context.Background(), db)
	require.NoError(t, err)

	return NewContactRepository(conn), mock
}

func sampleContact() model.Contact {
	return model.Contact{
		ContactFields: model.ContactFields{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "j@x.com",
			Phone:     "1234567890",
			Company:   "Acme",
			JobTitle:  "Eng",
		},
	}
}

func TestNewConnection_SchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("disk I/O error"))

	_, err = newConnection(context.Background(), db)
	assert.ErrorContains(t, err, "failed to initialize database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_List(t *testing.T) {
	repo, mock := newMockRepository(t)
	id1, id2 := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"id", "firstName", "lastName", "email", "phone", "company", "jobTitle"}).
		AddRow(id1.String(), "Ann", "Lee", "ann@x.com", "1234567890", "Acme", "CTO").
		AddRow(id2.String(), "Bob", "Ray", "bob@x.com", "1234567891", "Acme", "Eng")
	mock.ExpectQuery(regexp.QuoteMeta("FROM contacts ORDER BY firstName, lastName")).WillReturnRows(rows)

	contacts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, id1, contacts[0].ID)
	assert.Equal(t, "Ann", contacts[0].FirstName)
	assert.Equal(t, id2, contacts[1].ID)
	assert.Equal(t, "bob@x.com", contacts[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_List_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	contacts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestContactRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM contacts WHERE id = ?")).
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "firstName", "lastName", "email", "phone", "company", "jobTitle"}).
				AddRow(id.String(), "John", "Doe", "j@x.com", "1234567890", "Acme", "Eng"))

		got, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Doe", got.LastName)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestContactRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{
			name: "successful creation",
		},
		{
			name:    "duplicate email",
			execErr: codedError{code: sqlite3.SQLITE_CONSTRAINT_UNIQUE},
			wantErr: model.ErrDuplicateEmail,
		},
		{
			name:    "other constraint is not a duplicate",
			execErr: codedError{code: sqlite3.SQLITE_CONSTRAINT_NOTNULL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			c := sampleContact()

			exp := mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contacts")).
				WithArgs(sqlmock.AnyArg(), c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.JobTitle)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			saved, err := repo.Create(context.Background(), c)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.execErr != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, model.ErrDuplicateEmail)
			default:
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, saved.ID)
				assert.Equal(t, c.ContactFields, saved.ContactFields)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContactRepository_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{name: "successful update", affected: 1},
		{name: "unknown id", affected: 0, wantErr: model.ErrNotFound},
		{name: "email taken", execErr: codedError{code: sqlite3.SQLITE_CONSTRAINT_UNIQUE}, wantErr: model.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			c := sampleContact()
			c.ID = uuid.New()

			exp := mock.ExpectExec(regexp.QuoteMeta("UPDATE contacts")).
				WithArgs(c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.JobTitle, c.ID.String())
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			saved, err := repo.Update(context.Background(), c)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, c, saved)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestContactRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "successful delete", affected: 1},
		{name: "unknown id", affected: 0, wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			id := uuid.New()

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contacts WHERE id = ?")).
				WithArgs(id.String()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
