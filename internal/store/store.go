package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a flat key/object store for stadium images. Keys are file names
// such as "memorial-stadium-lincoln-neb.jpg".
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	// Exists reports whether key is present. Lookup failures count as absent.
	Exists(key string) bool
	// Location is the human-facing path of key (file path or gs:// URL).
	Location(key string) string
}

// LocalStore is a directory-backed implementation of Store.
type LocalStore struct {
	dir string
}

// NewLocal returns a LocalStore rooted at dir. The directory is not created
// until the first Set, so probing never touches the filesystem.
func NewLocal(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Get retrieves a value by key. Returns the value and true if found,
// or nil and false if not found.
func (s *LocalStore) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value with the given key, replacing any existing file whole.
func (s *LocalStore) Set(key string, value []byte) error {
	return WriteFileAtomic(s.keyPath(key), value, 0644)
}

func (s *LocalStore) Exists(key string) bool {
	info, err := os.Stat(s.keyPath(key))
	return err == nil && !info.IsDir()
}

func (s *LocalStore) Location(key string) string {
	return filepath.ToSlash(s.keyPath(key))
}

func (s *LocalStore) keyPath(key string) string {
	return filepath.Join(s.dir, key)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers see either the old file or the complete new one.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
