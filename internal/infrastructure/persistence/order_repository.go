package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByPlatformOrderNo finds an order by its platform order number
func (r *GormOrderRepository) FindByPlatformOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Where("platform_order_no = ?", orderNo).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUploadID returns the orders inserted by one ingestion run
func (r *GormOrderRepository) FindByUploadID(ctx context.Context, uploadID uuid.UUID) ([]order.Order, error) {
	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByUploadID counts the orders inserted by one ingestion run
func (r *GormOrderRepository) CountByUploadID(ctx context.Context, uploadID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("upload_id = ?", uploadID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// LinkManufacturer back-fills a manufacturer id onto pending orders matching
// the normalized (product code, option name) pair. Completed orders are never
// touched, and an already linked order keeps its manufacturer.
func (r *GormOrderRepository) LinkManufacturer(ctx context.Context, codeKey, optionKey string, manufacturerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("LOWER(TRIM(product_code)) = ?", codeKey).
		Where("LOWER(TRIM(option_name)) = ?", optionKey).
		Where("status <> ?", order.StatusCompleted).
		Where("manufacturer_id IS NULL").
		Update("manufacturer_id", manufacturerID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
