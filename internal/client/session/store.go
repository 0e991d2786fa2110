// Package session holds the client-side session state: a persisted
// {token, user} snapshot and the orchestrator that keeps it coherent with
// the server across login, logout and profile updates.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"eventdiscovery/internal/client/api"
)

const snapshotFile = "session.json"

// Snapshot is the locally cached copy of the server-issued credentials.
// It is a cache, not a source of truth. Token and user live in one
// document so they are always written and cleared together.
type Snapshot struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Valid reports whether the snapshot is structurally usable: a token plus
// an identifiable user. A stale user without a token never counts as a
// session.
func (s Snapshot) Valid() bool {
	return s.Token != "" && s.User.ID != 0 && s.User.Email != ""
}

// Store persists the snapshot as a single JSON file under dir.
type Store struct {
	dir  string
	path string
}

// NewStore creates a Store rooted at dir. The directory is created lazily
// on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, path: filepath.Join(dir, snapshotFile)}
}

// Load reads the persisted snapshot. A missing or unreadable or corrupt
// file reports ok=false with a nil error: local-storage problems degrade
// to "no session" rather than blocking startup.
func (s *Store) Load() (Snapshot, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

// Save replaces the persisted snapshot in one atomic write: the document
// goes to a temp file in the same directory and is renamed over the old
// one. There is no field-by-field persistence.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, snapshotFile+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Clear removes the persisted snapshot. Absence is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
