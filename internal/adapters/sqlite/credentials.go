package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mylibrary/internal/ports"
)

// CredentialKey is the fixed settings key holding the bearer token
const CredentialKey = "authToken"

// DatabaseName is the file created inside the data directory
const DatabaseName = "session.db"

// CredentialStore implements ports.CredentialStore using SQLite
type CredentialStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Ensure CredentialStore implements CredentialStore
var _ ports.CredentialStore = (*CredentialStore)(nil)

// Open creates or opens the session database inside dataDir
func Open(dataDir string) (*CredentialStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, DatabaseName)

	if err := migrateUp(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Owner-only: the file holds a bearer token
	if err := os.Chmod(dbPath, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restrict database permissions: %w", err)
	}

	return &CredentialStore{db: db, dbPath: dbPath, now: time.Now}, nil
}

// Path returns the database file location
func (s *CredentialStore) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *CredentialStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the stored credential, or "" when none is stored
func (s *CredentialStore) Load() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, CredentialKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return token, nil
}

// Save stores the credential, replacing any previous one
func (s *CredentialStore) Save(token string) error {
	if token == "" {
		return s.Clear()
	}
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, CredentialKey, token, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential
func (s *CredentialStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, CredentialKey); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
