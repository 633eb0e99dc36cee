package syncer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileStore is a BlobStore backed by one file per key inside a data
// directory. Writes go through a temp file and a rename so a crash mid-write
// never leaves a truncated blob behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	return &FileStore{dir: dir}, nil
}

// Get reads the blob stored under key. A missing file is not an error.
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read blob %q", key)
	}

	return raw, true, nil
}

// Set writes the blob atomically.
func (f *FileStore) Set(key string, value []byte) error {
	target := f.path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return errors.Wrapf(err, "write blob %q", key)
	}
	if err := os.Rename(tmp, target); err != nil {
		return errors.Wrapf(err, "commit blob %q", key)
	}

	return nil
}

// Delete removes the blob under key. Deleting a missing key is a no-op.
func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete blob %q", key)
	}

	return nil
}

func (f *FileStore) path(key string) string {
	// Keys are fixed constants today, but sanitize anyway so a future key
	// cannot escape the data directory.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)

	return filepath.Join(f.dir, safe+".json")
}

// MemoryStore is an in-memory BlobStore for tests and ephemeral sessions.
type MemoryStore struct {
	blobs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Get returns the stored blob, if any.
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	raw, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}

	cp := make([]byte, len(raw))
	copy(cp, raw)

	return cp, true, nil
}

// Set stores a copy of value under key.
func (m *MemoryStore) Set(key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.blobs[key] = cp

	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(key string) error {
	delete(m.blobs, key)

	return nil
}
