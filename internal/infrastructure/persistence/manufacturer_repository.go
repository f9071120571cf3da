package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormManufacturerRepository implements ManufacturerRepository using GORM
type GormManufacturerRepository struct {
	db *gorm.DB
}

// NewGormManufacturerRepository creates a new GormManufacturerRepository
func NewGormManufacturerRepository(db *gorm.DB) *GormManufacturerRepository {
	return &GormManufacturerRepository{db: db}
}

// FindByID finds a manufacturer by its ID
func (r *GormManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Manufacturer, error) {
	var m partner.Manufacturer
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByNameKey finds a manufacturer by its normalized name key
func (r *GormManufacturerRepository) FindByNameKey(ctx context.Context, nameKey string) (*partner.Manufacturer, error) {
	var m partner.Manufacturer
	if err := r.db.WithContext(ctx).
		Where("name_key = ?", nameKey).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll returns all manufacturers ordered by name
func (r *GormManufacturerRepository) FindAll(ctx context.Context) ([]partner.Manufacturer, error) {
	var manufacturers []partner.Manufacturer
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&manufacturers).Error; err != nil {
		return nil, err
	}
	return manufacturers, nil
}

// Save creates or updates a manufacturer
func (r *GormManufacturerRepository) Save(ctx context.Context, m *partner.Manufacturer) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Count returns the total number of manufacturers
func (r *GormManufacturerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Manufacturer{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
