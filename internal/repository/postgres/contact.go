package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/contacts-server/internal/model"
)

var _ model.ContactStore = (*ContactRepository)(nil)

const contactsEmailKey = "contacts_email_key"

type ContactRepository struct {
	db *Connection
}

func NewContactRepository(db *Connection) *ContactRepository {
	return &ContactRepository{
		db: db,
	}
}

func (r *ContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	// COLLATE "C" keeps the order bytewise regardless of the database locale.
	query := `
		SELECT id, first_name, last_name, email, phone, company, job_title
		FROM contacts
		ORDER BY first_name COLLATE "C", last_name COLLATE "C"`

	rows, err := r.db.Query(ctx, query)
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
	query := `
		SELECT id, first_name, last_name, email, phone, company, job_title
		FROM contacts
		WHERE id = $1`

	var contact model.Contact
	err := scanContact(r.db.QueryRow(ctx, query, id), &contact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contact{}, model.ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("failed to get contact by id: %w", err)
	}

	return contact, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	query := `
		INSERT INTO contacts (id, first_name, last_name, email, phone, company, job_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	contact.ID = uuid.New()
	_, err := r.db.Exec(ctx, query,
		contact.ID, contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Company, contact.JobTitle,
	)
	if err != nil {
		if isDuplicateEmail(err) {
			return model.Contact{}, model.ErrDuplicateEmail
		}
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact model.Contact) (model.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, phone = $5, company = $6, job_title = $7
		WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query,
		contact.ID, contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.Company, contact.JobTitle,
	)
	if err != nil {
		if isDuplicateEmail(err) {
			return model.Contact{}, model.ErrDuplicateEmail
		}
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.Contact{}, model.ErrNotFound
	}

	return contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM contacts WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ContactRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanContact(row pgx.Row, contact *model.Contact) error {
	return row.Scan(
		&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.Phone, &contact.Company, &contact.JobTitle,
	)
}

func isDuplicateEmail(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == contactsEmailKey
}
