// Package session persists authentication state for the publishing service:
// the opaque session blob handed back by a successful login, and the
// username/password pair kept between runs for convenience.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/instasched/instasched/internal/model"
)

// Store is a two-slot durable store: one well-known file for the session
// blob, one for the credentials. Both are written whole, never partially.
type Store struct {
	mu        sync.Mutex
	fs        afero.Fs
	sessPath  string
	credsPath string
}

// NewStore returns a Store backed by fs, keeping the session blob at
// sessPath and the credentials at credsPath.
func NewStore(fs afero.Fs, sessPath, credsPath string) *Store {
	return &Store{
		fs:        fs,
		sessPath:  sessPath,
		credsPath: credsPath,
	}
}

// Restore loads the stored session state. The second return value reports
// whether a stored state exists; a missing file is not an error.
func (s *Store) Restore() (model.SessionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.sessPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return model.SessionState(data), true, nil
}

// Persist writes the session state to its well-known location, replacing any
// previous state.
func (s *Store) Persist(state model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(s.sessPath), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.sessPath, state, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadCredentials returns the stored credentials, if any.
func (s *Store) LoadCredentials() (model.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var creds model.Credentials
	data, err := afero.ReadFile(s.fs, s.credsPath)
	if err != nil {
		return creds, false
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return model.Credentials{}, false
	}
	return creds, creds.Username != ""
}

// SaveCredentials stores the credentials for the next run.
func (s *Store) SaveCredentials(creds model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.credsPath), 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.credsPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
