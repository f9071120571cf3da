package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOptionMappingRepository implements OptionMappingRepository using GORM
type GormOptionMappingRepository struct {
	db *gorm.DB
}

// NewGormOptionMappingRepository creates a new GormOptionMappingRepository
func NewGormOptionMappingRepository(db *gorm.DB) *GormOptionMappingRepository {
	return &GormOptionMappingRepository{db: db}
}

// FindByID finds an option mapping by its ID
func (r *GormOptionMappingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.OptionMapping, error) {
	var m catalog.OptionMapping
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByKey finds an option mapping by its normalized (code, option) pair
func (r *GormOptionMappingRepository) FindByKey(ctx context.Context, codeKey, optionKey string) (*catalog.OptionMapping, error) {
	var m catalog.OptionMapping
	if err := r.db.WithContext(ctx).
		Where("code_key = ? AND option_key = ?", codeKey, optionKey).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll returns all option mappings
func (r *GormOptionMappingRepository) FindAll(ctx context.Context) ([]catalog.OptionMapping, error) {
	var mappings []catalog.OptionMapping
	if err := r.db.WithContext(ctx).Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// FindUnresolved returns option mappings still awaiting manual manufacturer assignment
func (r *GormOptionMappingRepository) FindUnresolved(ctx context.Context) ([]catalog.OptionMapping, error) {
	var mappings []catalog.OptionMapping
	if err := r.db.WithContext(ctx).
		Where("manufacturer_id IS NULL").
		Order("created_at ASC").
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// Save creates or updates an option mapping
func (r *GormOptionMappingRepository) Save(ctx context.Context, m *catalog.OptionMapping) error {
	return r.db.WithContext(ctx).Save(m).Error
}
