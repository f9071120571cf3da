package ingest

import (
	"context"

	"github.com/google/uuid"
)

// UploadRepository defines persistence operations for upload audit records
type UploadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Upload, error)
	FindAll(ctx context.Context, offset, limit int) ([]Upload, int64, error)
	Save(ctx context.Context, u *Upload) error
}
