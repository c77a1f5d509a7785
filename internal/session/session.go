// Package session owns the persisted authentication token. It is the
// single source of truth for whether a user is logged in; validity of
// the token is the auth guard's concern, not this package's.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store holds the current bearer token and mirrors it to disk so a
// restart does not force re-login.
type Store struct {
	path  string
	mu    sync.RWMutex
	token string
}

// data is the persisted session shape.
type data struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// NewStore creates a session store backed by the given file path.
// Any previously persisted session is loaded immediately.
func NewStore(path string) *Store {
	s := &Store{path: path}
	_ = s.load()
	return s
}

// Get returns the current token and whether one is present. Presence
// does not imply validity.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set stores a new token, replacing any previous one, and persists it.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.save(token)
}

// Clear removes the token from memory and disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var d data
	if err := json.Unmarshal(raw, &d); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = d.AccessToken
	s.mu.Unlock()
	return nil
}

func (s *Store) save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	raw, err := json.Marshal(data{
		AccessToken: token,
		SavedAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	// Token file carries a credential, keep it user-only.
	return os.WriteFile(s.path, raw, 0600)
}
