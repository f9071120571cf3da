package partner

import (
	"context"

	"github.com/google/uuid"
)

// ManufacturerRepository defines persistence operations for manufacturers
type ManufacturerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Manufacturer, error)
	FindByNameKey(ctx context.Context, nameKey string) (*Manufacturer, error)
	FindAll(ctx context.Context) ([]Manufacturer, error)
	Save(ctx context.Context, m *Manufacturer) error
	Count(ctx context.Context) (int64, error)
}
