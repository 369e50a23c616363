package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/storefront/backend/internal/application/importer"
	"github.com/storefront/backend/internal/domain/shared"
)

var _ importer.BlobStorage = (*LocalBlobStorage)(nil)

// LocalBlobStorage implements BlobStorage on a local directory tree. Used in
// development and by the import CLI when no S3 endpoint is configured.
type LocalBlobStorage struct {
	root string
}

// NewLocalBlobStorage creates a blob storage rooted at dir
func NewLocalBlobStorage(dir string) (*LocalBlobStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalBlobStorage{root: dir}, nil
}

func (l *LocalBlobStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

// Upload writes data under key, creating parent directories as needed
func (l *LocalBlobStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object %q: %w", key, err)
	}
	return nil
}

// Download reads the object stored under key
func (l *LocalBlobStorage) Download(_ context.Context, key string) ([]byte, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return data, nil
}

// Exists checks whether an object is stored under key
func (l *LocalBlobStorage) Exists(_ context.Context, key string) (bool, error) {
	p, err := l.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the object stored under key
func (l *LocalBlobStorage) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}
