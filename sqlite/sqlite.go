// Package sqlite reads documentation corpora from databases written by the
// locdoc crawler.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fwojciec/cdpchat"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Option configures a DB.
type Option func(*DB)

// ReadOnly opens an existing database without creating or changing anything.
func ReadOnly() Option {
	return func(db *DB) {
		db.readOnly = true
	}
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string, opts ...Option) *DB {
	db := &DB{path: path}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open opens the database connection. Writable databases get the schema
// created if needed; read-only databases must already exist.
func (db *DB) Open() error {
	dsn := db.path
	if db.readOnly {
		if _, err := os.Stat(db.path); errors.Is(err, fs.ErrNotExist) {
			return cdpchat.Errorf(cdpchat.ENOTFOUND, "database %s not found", db.path)
		}
		dsn = "file:" + db.path + "?mode=ro"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return cdpchat.Errorf(cdpchat.EUNAVAILABLE, "failed to connect to database %s: %v", db.path, err)
	}

	// Wait for the crawler to finish a write instead of failing at once.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	db.db = conn

	if db.readOnly {
		return nil
	}

	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema matches the layout the locdoc crawler writes.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source_url TEXT NOT NULL,
			local_path TEXT NOT NULL DEFAULT '',
			filter TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			file_path TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			fetched_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_project_id ON documents(project_id);
	`
	_, err := db.db.Exec(schema)
	return err
}
