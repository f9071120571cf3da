package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUploadRepository implements UploadRepository using GORM
type GormUploadRepository struct {
	db *gorm.DB
}

// NewGormUploadRepository creates a new GormUploadRepository
func NewGormUploadRepository(db *gorm.DB) *GormUploadRepository {
	return &GormUploadRepository{db: db}
}

// FindByID finds an upload audit record by its ID
func (r *GormUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*ingest.Upload, error) {
	var u ingest.Upload
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindAll returns upload audit records newest-first with the total count
func (r *GormUploadRepository) FindAll(ctx context.Context, offset, limit int) ([]ingest.Upload, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&ingest.Upload{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var uploads []ingest.Upload
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&uploads).Error; err != nil {
		return nil, 0, err
	}
	return uploads, total, nil
}

// Save creates or updates an upload audit record
func (r *GormUploadRepository) Save(ctx context.Context, u *ingest.Upload) error {
	return r.db.WithContext(ctx).Save(u).Error
}
