package device

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Snapshot file permissions.
const (
	storeDirPermissions  = 0750
	storeFilePermissions = 0600
)

// Store persists the full device snapshot. The registry rewrites the whole
// snapshot on every mutation; there is no partial update.
type Store interface {
	// Load reads the persisted snapshot. A missing file is not an error:
	// it returns an empty record set.
	Load(ctx context.Context) ([]Record, error)

	// Save overwrites the snapshot with the given records.
	Save(ctx context.Context, records []Record) error
}

// JSONStore implements Store as a single JSON file: an array of flat
// per-device records, each tagged with its variant discriminator.
type JSONStore struct {
	path string
	mu   sync.RWMutex
}

// NewJSONStore creates a store backed by the given file path.
// The file is created on first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load implements Store. Read failures and corrupt JSON surface as a
// *PersistenceError so callers can tell a broken store apart from an
// empty one.
func (s *JSONStore) Load(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	return records, nil
}

// Save implements Store. The file is replaced wholesale; a crash mid-write
// can corrupt it, which Load reports as a *PersistenceError on next start.
func (s *JSONStore) Save(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirPermissions); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	if err := os.WriteFile(s.path, data, storeFilePermissions); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}
