package mall

import (
	"context"

	"github.com/google/uuid"
)

// TemplateRepository defines persistence operations for mall templates
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	FindByMallName(ctx context.Context, mallName string) (*Template, error)
	FindAll(ctx context.Context) ([]Template, error)
	Save(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}
