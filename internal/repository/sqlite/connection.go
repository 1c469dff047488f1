package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// schema matches the file layout the contacts table has always had, so an
// existing contacts.db is opened as is.
const schema = `
	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		firstName TEXT NOT NULL,
		lastName TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone TEXT NOT NULL,
		company TEXT NOT NULL,
		jobTitle TEXT NOT NULL
	)`

type Connection struct {
	*sql.DB
}

// NewConnection opens the database file at path, creating it if absent,
// and makes sure the contacts table exists. Opening an initialized file
// again is a no-op apart from loading it.
func NewConnection(ctx context.Context, path string) (*Connection, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database file: %w", err)
	}

	conn, err := newConnection(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return conn, nil
}

func newConnection(ctx context.Context, db *sql.DB) (*Connection, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{DB: db}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(FULL)")
	return "file:" + path + "?" + q.Encode()
}

func (c *Connection) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("database is nil")
	}
	return c.DB.PingContext(ctx)
}
