// Package store provides local durable key-value persistence.
// Each logical dataset (profile, library, session user) occupies a single
// string-keyed slot holding a whole JSON document; there are no partial
// updates and no schema migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Well-known slot keys.
const (
	SlotProfile     = "profile"
	SlotLibrary     = "library"
	SlotSessionUser = "session_user"
)

// DB wraps a SQLite database holding the slot table.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens the slot store at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating slot table: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the underlying database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the store file path.
func (db *DB) Path() string {
	return db.path
}

// Get reads the document stored in a slot. The second return value is
// false when the slot has never been written.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, true, nil
}

// Put overwrites the document in a slot.
func (db *DB) Put(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// Delete clears a slot. Deleting an absent slot is a no-op.
func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}
