// Package backend is the demo CRUD service consumed by tutorial pages: a
// small key-value store over two HTTP resources (/users/{id}, /data/{key})
// backed by SQLite. It is deliberately simple; pages use it to demonstrate
// talking to a service, nothing in the navigation core depends on it.
package backend

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a user or data key is absent.
var ErrNotFound = errors.New("not found")

// User is the stored user record. Progress is an opaque JSON blob owned by
// the pages that write it.
type User struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Progress map[string]any `json:"progress,omitempty"`
}

// Store is the SQLite-backed key-value storage for the demo backend.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and initializes) the backend database at path.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			progress   TEXT NOT NULL DEFAULT '{}',
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS app_data (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// PutUser creates or replaces a user record.
func (s *Store) PutUser(id string, u User, progressJSON string) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, name, email, progress, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			progress = excluded.progress,
			updated_at = excluded.updated_at`,
		id, u.Name, u.Email, progressJSON, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing user %s: %w", id, err)
	}
	return nil
}

// GetUser fetches a user record and its raw progress JSON.
func (s *Store) GetUser(id string) (User, string, error) {
	var u User
	var progressJSON string
	err := s.db.QueryRow(
		`SELECT name, email, progress FROM users WHERE id = ?`, id,
	).Scan(&u.Name, &u.Email, &progressJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return User{}, "", fmt.Errorf("fetching user %s: %w", id, err)
	}
	return u, progressJSON, nil
}

// PutData creates or replaces an app-data value.
func (s *Store) PutData(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_data (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing data %s: %w", key, err)
	}
	return nil
}

// GetData fetches an app-data value.
func (s *Store) GetData(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_data WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("data %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("fetching data %s: %w", key, err)
	}
	return value, nil
}
