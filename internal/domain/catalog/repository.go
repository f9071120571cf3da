package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCodeKey(ctx context.Context, codeKey string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, p *Product) error
}

// OptionMappingRepository defines persistence operations for option mappings
type OptionMappingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OptionMapping, error)
	FindByKey(ctx context.Context, codeKey, optionKey string) (*OptionMapping, error)
	FindAll(ctx context.Context) ([]OptionMapping, error)
	FindUnresolved(ctx context.Context) ([]OptionMapping, error)
	Save(ctx context.Context, m *OptionMapping) error
}
