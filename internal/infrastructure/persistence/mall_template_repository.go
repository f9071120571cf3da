package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a mall template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*mall.Template, error) {
	var t mall.Template
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByMallName finds a mall template by mall name
func (r *GormTemplateRepository) FindByMallName(ctx context.Context, mallName string) (*mall.Template, error) {
	var t mall.Template
	if err := r.db.WithContext(ctx).
		Where("mall_name = ?", mallName).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll returns all mall templates ordered by mall name
func (r *GormTemplateRepository) FindAll(ctx context.Context) ([]mall.Template, error) {
	var templates []mall.Template
	if err := r.db.WithContext(ctx).
		Order("mall_name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a mall template
func (r *GormTemplateRepository) Save(ctx context.Context, t *mall.Template) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete removes a mall template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&mall.Template{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
