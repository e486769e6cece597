package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"closet-go/internal/closet"
)

// FileSystemStore is a filesystem-based implementation of closet.MediaStore.
// Each asset is one file directly under the root directory, named by its
// generated token. Writes go through a temp file and rename so a crash never
// leaves a half-written asset behind.
type FileSystemStore struct {
	root string
}

var _ closet.MediaStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates a media store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Save stores data under name, replacing any existing asset.
func (s *FileSystemStore) Save(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	destPath := filepath.Join(s.root, name)

	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write asset: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Load returns the asset stored under name, or (nil, nil) when it does not
// exist.
func (s *FileSystemStore) Load(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	return data, nil
}

// Delete removes the asset. Missing assets are not an error.
func (s *FileSystemStore) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// List returns the names of all stored assets.
func (s *FileSystemStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// validName rejects names that would escape the root directory. Asset names
// are generated tokens, so anything with a separator is a caller bug.
func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid asset name: %q", name)
	}
	return nil
}
