package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"realhub-app/internal/core/domain"
)

// Record is the single named local record holding the persisted session
type Record struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	SavedAt time.Time   `json:"saved_at"`
}

// ErrCorrupt marks an unreadable session record. Treated like no record:
// the session holder fails closed and forces re-login.
var ErrCorrupt = errors.New("session record corrupt")

// Store persists the session record as a 0600 JSON file
type Store struct {
	path string
}

// New creates a store at the given path
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the per-user session record location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".realhub_session.json"
	}
	return filepath.Join(home, ".realhub", "session.json")
}

// Load reads the persisted record, if any
func (s *Store) Load() (*Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNoStoredSession
		}
		return nil, fmt.Errorf("read session record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, ErrCorrupt
	}
	if rec.Token == "" {
		return nil, ErrCorrupt
	}
	return &rec, nil
}

// Save writes the record, creating the parent directory if needed
func (s *Store) Save(rec *Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0600); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

// Clear removes the record. Idempotent.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session record: %w", err)
	}
	return nil
}
