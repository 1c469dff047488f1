package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dtroode/contacts-server/internal/model"
)

var _ model.ContactStore = (*ContactRepository)(nil)

const contactColumns = `id, firstName, lastName, email, phone, company, jobTitle`

type ContactRepository struct {
	db *Connection
}

func NewContactRepository(db *Connection) *ContactRepository {
	return &ContactRepository{
		db: db,
	}
}

func (r *ContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY firstName, lastName`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var contact model.Contact
		if err := scanContact(rows, &contact); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (r *ContactRepository) Get(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`

	var contact model.Contact
	err := scanContact(r.db.QueryRowContext(ctx, query, id.String()), &contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Contact{}, model.ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("failed to get contact by id: %w", err)
	}

	return contact, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	query := `INSERT INTO contacts (` + contactColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	contact.ID = uuid.New()
	_, err := r.db.ExecContext(ctx, query,
		contact.ID.String(), contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Company, contact.JobTitle,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Contact{}, model.ErrDuplicateEmail
		}
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact model.Contact) (model.Contact, error) {
	query := `UPDATE contacts
		SET firstName = ?, lastName = ?, email = ?, phone = ?, company = ?, jobTitle = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Company, contact.JobTitle,
		contact.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Contact{}, model.ErrDuplicateEmail
		}
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	if affected == 0 {
		return model.Contact{}, model.ErrNotFound
	}

	return contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM contacts WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ContactRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner, contact *model.Contact) error {
	return row.Scan(
		&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.Phone, &contact.Company, &contact.JobTitle,
	)
}

// isUniqueViolation reports whether err carries the SQLite unique constraint
// result code. The only UNIQUE constraints on contacts are email and the
// primary key, and ids are random v4 UUIDs.
func isUniqueViolation(err error) bool {
	var coded interface{ Code() int }
	if !errors.As(err, &coded) {
		return false
	}
	return coded.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
