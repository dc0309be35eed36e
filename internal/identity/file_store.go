package identity

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the identity record as one JSON file in a state directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path is the location of the identity record.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, StorageKey+".json")
}

// Load reads the stored identity. A missing file means logged out.
func (s *FileStore) Load(_ context.Context) (Identity, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Identity{}, ErrNotLoggedIn
		}
		return Identity{}, fmt.Errorf("read identity: %w", err)
	}
	return decode(data)
}

// Save writes the record to a temp file in the same directory and renames it
// over the previous one.
func (s *FileStore) Save(_ context.Context, id Identity) error {
	data, err := encode(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp identity: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write identity: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod identity: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync identity: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close identity: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("replace identity: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an absent record is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove identity: %w", err)
	}
	return nil
}
