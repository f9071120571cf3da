package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormExclusionPatternRepository implements ExclusionPatternRepository using GORM
type GormExclusionPatternRepository struct {
	db *gorm.DB
}

// NewGormExclusionPatternRepository creates a new GormExclusionPatternRepository
func NewGormExclusionPatternRepository(db *gorm.DB) *GormExclusionPatternRepository {
	return &GormExclusionPatternRepository{db: db}
}

// FindByID finds an exclusion pattern by its ID
func (r *GormExclusionPatternRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.ExclusionPattern, error) {
	var p order.ExclusionPattern
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll returns all exclusion patterns
func (r *GormExclusionPatternRepository) FindAll(ctx context.Context) ([]order.ExclusionPattern, error) {
	var patterns []order.ExclusionPattern
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&patterns).Error; err != nil {
		return nil, err
	}
	return patterns, nil
}

// FindEnabled returns only enabled exclusion patterns
func (r *GormExclusionPatternRepository) FindEnabled(ctx context.Context) ([]order.ExclusionPattern, error) {
	var patterns []order.ExclusionPattern
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at ASC").
		Find(&patterns).Error; err != nil {
		return nil, err
	}
	return patterns, nil
}

// Save creates or updates an exclusion pattern
func (r *GormExclusionPatternRepository) Save(ctx context.Context, p *order.ExclusionPattern) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes an exclusion pattern
func (r *GormExclusionPatternRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&order.ExclusionPattern{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
