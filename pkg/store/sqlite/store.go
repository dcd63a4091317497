// Package sqlite provides SQLite persistence for Curtain settings records
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ChrisMcGann/Curtain/pkg/core"
	_ "github.com/mattn/go-sqlite3"
)

// Timestamp format for the updated_at column (ISO 8601)
const updatedFormat = time.RFC3339

// Store keeps one JSON-encoded settings record per key
type Store struct {
	db       *sql.DB
	path     string
	loadStmt *sql.Stmt
	saveStmt *sql.Stmt
}

// Open opens or creates the settings database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers on the same file.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// createTables creates the settings schema
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares the statements used on every call
func (s *Store) prepareStatements() error {
	var err error

	s.loadStmt, err = s.db.Prepare(`SELECT payload FROM settings WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO settings (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	return nil
}

// Load returns the settings stored under key. The boolean is false when
// no record exists.
func (s *Store) Load(ctx context.Context, key string) (core.Settings, bool, error) {
	var payload string
	err := s.loadStmt.QueryRowContext(ctx, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, false, nil
	}
	if err != nil {
		return core.Settings{}, false, fmt.Errorf("failed to load settings %q: %w", key, err)
	}

	var settings core.Settings
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return core.Settings{}, false, fmt.Errorf("failed to decode settings %q: %w", key, err)
	}
	return settings, true, nil
}

// Save replaces the record stored under key
func (s *Store) Save(ctx context.Context, key string, settings core.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if _, err := s.saveStmt.ExecContext(ctx, key, string(payload), time.Now().UTC().Format(updatedFormat)); err != nil {
		return fmt.Errorf("failed to save settings %q: %w", key, err)
	}
	return nil
}

// Delete removes the record stored under key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete settings %q: %w", key, err)
	}
	return nil
}

// Keys returns every stored key
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes prepared statements and the database
func (s *Store) Close() error {
	if s.loadStmt != nil {
		s.loadStmt.Close()
	}
	if s.saveStmt != nil {
		s.saveStmt.Close()
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
