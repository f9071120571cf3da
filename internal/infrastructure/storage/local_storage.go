package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Ensure LocalObjectStorage implements ObjectStorage
var _ ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage stores objects on the local filesystem. Meant for
// development and tests; download URLs are plain file paths, not presigned.
type LocalObjectStorage struct {
	baseDir    string
	expiration time.Duration
}

// NewLocalObjectStorage creates a LocalObjectStorage rooted at baseDir.
func NewLocalObjectStorage(baseDir string, expiration time.Duration) (*LocalObjectStorage, error) {
	if baseDir == "" {
		return nil, errors.New("local storage directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if expiration == 0 {
		expiration = 15 * time.Minute
	}
	return &LocalObjectStorage{baseDir: baseDir, expiration: expiration}, nil
}

func (s *LocalObjectStorage) path(storageKey string) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean("/" + storageKey)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// Upload writes an object to the local filesystem.
func (s *LocalObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	p, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

// GenerateDownloadURL returns a file:// URL for the object.
func (s *LocalObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	p, err := s.path(storageKey)
	if err != nil {
		return "", time.Time{}, err
	}
	if expiresIn <= 0 {
		expiresIn = s.expiration
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", time.Time{}, err
	}
	return "file://" + abs, time.Now().Add(expiresIn), nil
}

// ObjectExists checks if an object exists on disk.
func (s *LocalObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	p, err := s.path(storageKey)
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

// DeleteObject removes an object from disk.
func (s *LocalObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	p, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
