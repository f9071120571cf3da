package ingestapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/storage"
)

// UploadService serves the ingestion run history and generated-file downloads
type UploadService struct {
	uploads ingest.UploadRepository
	storage storage.ObjectStorage
	expiry  time.Duration
}

// NewUploadService creates the upload history service. The object storage is
// optional; without one, download links are unavailable.
func NewUploadService(uploads ingest.UploadRepository, objectStorage storage.ObjectStorage, downloadExpiry time.Duration) *UploadService {
	if downloadExpiry <= 0 {
		downloadExpiry = 15 * time.Minute
	}
	return &UploadService{
		uploads: uploads,
		storage: objectStorage,
		expiry:  downloadExpiry,
	}
}

// List returns a page of upload records, newest first, with the total count
func (s *UploadService) List(ctx context.Context, offset, limit int) ([]ingest.Upload, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.uploads.FindAll(ctx, offset, limit)
}

// Get returns one upload record by id
func (s *UploadService) Get(ctx context.Context, id uuid.UUID) (*ingest.Upload, error) {
	return s.uploads.FindByID(ctx, id)
}

// DownloadURL returns a presigned link for the generated workbook of a
// completed run.
func (s *UploadService) DownloadURL(ctx context.Context, id uuid.UUID) (string, time.Time, error) {
	u, err := s.uploads.FindByID(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if u.ResultObjectKey == "" {
		return "", time.Time{}, shared.NewDomainError("NO_RESULT_FILE", "This run has no generated workbook")
	}
	if s.storage == nil {
		return "", time.Time{}, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	return s.storage.GenerateDownloadURL(ctx, u.ResultObjectKey, s.expiry)
}
