package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/m3rciful/carta/internal/catalog"
)

// FileStore keeps the document on local disk. The revision is the sha256 of
// the content. Writes go through a temp file and rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store for path. The file must exist before the first Fetch.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Backend implements Store.
func (s *FileStore) Backend() string { return "file" }

// Fetch implements Store.
func (s *FileStore) Fetch(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, revisionOf(data), nil
}

// Replace implements Store.
func (s *FileStore) Replace(ctx context.Context, content []byte, revision, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if revisionOf(current) != revision {
			return catalog.ErrConflict
		}
	case errors.Is(err, fs.ErrNotExist):
		if revision != "" {
			return catalog.ErrConflict
		}
	default:
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".menu-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func revisionOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
