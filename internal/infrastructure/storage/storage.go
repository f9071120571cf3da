// Package storage provides object storage implementations for generated
// workbook files.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ObjectStorage stores generated workbooks and hands out download URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// New creates the object storage backend selected by configuration.
func New(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	case "local":
		return NewLocalObjectStorage(cfg.LocalDir, cfg.PresignExpiration)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
