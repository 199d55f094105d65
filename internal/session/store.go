// Package session persists the active identity as a small JSON snapshot on
// disk so a restart resumes the signed-in session.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/agenda-escolar/internal/application"
)

type snapshot struct {
	Login string `json:"login"`
	Nome  string `json:"nome"`
	Role  string `json:"role"`
}

// FileStore is a file-backed session snapshot store. It is safe for
// concurrent use.
type FileStore struct {
	mu       sync.Mutex
	path     string
	identity application.Identity
	active   bool
}

var _ application.SessionStore = (*FileStore)(nil)

// NewFileStore creates a store writing to path. Call Load before use to pick
// up a snapshot left by a previous run.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the snapshot from disk. A missing file means no active session
// and is not an error. A corrupt snapshot is discarded.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.identity = application.Identity{}
			s.active = false
			return nil
		}
		return fmt.Errorf("read session snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.identity = application.Identity{}
		s.active = false
		return nil
	}

	s.identity = application.Identity{
		Login: snap.Login,
		Nome:  snap.Nome,
		Role:  application.Role(snap.Role),
	}
	s.active = !s.identity.IsZero()
	return nil
}

// Current returns the active identity, if any.
func (s *FileStore) Current() (application.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.active
}

// Save records identity as the active session and writes the snapshot to
// disk. The write is atomic so a crash never leaves a half-written file.
func (s *FileStore) Save(identity application.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = identity
	s.active = true

	data, err := json.Marshal(snapshot{
		Login: identity.Login,
		Nome:  identity.Nome,
		Role:  string(identity.Role),
	})
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "session-*")
	if err != nil {
		return fmt.Errorf("write session snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write session snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write session snapshot: %w", err)
	}
	return nil
}

// Clear drops the active session and removes the snapshot file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = application.Identity{}
	s.active = false

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session snapshot: %w", err)
	}
	return nil
}
