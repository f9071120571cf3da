package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByPlatformOrderNo(ctx context.Context, orderNo string) (*Order, error)
	FindByUploadID(ctx context.Context, uploadID uuid.UUID) ([]Order, error)
	CountByUploadID(ctx context.Context, uploadID uuid.UUID) (int64, error)
	Save(ctx context.Context, o *Order) error
	// LinkManufacturer back-fills a manufacturer id onto pending orders that
	// match the normalized (product code, option name) pair. Completed orders
	// are never touched.
	LinkManufacturer(ctx context.Context, codeKey, optionKey string, manufacturerID uuid.UUID) (int64, error)
}

// ExclusionPatternRepository defines persistence operations for exclusion patterns
type ExclusionPatternRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExclusionPattern, error)
	FindAll(ctx context.Context) ([]ExclusionPattern, error)
	FindEnabled(ctx context.Context) ([]ExclusionPattern, error)
	Save(ctx context.Context, p *ExclusionPattern) error
	Delete(ctx context.Context, id uuid.UUID) error
}
