package ingestapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TemplateCache caches resolved templates by mall name. A nil cache result
// with a nil error means a miss; cache errors are treated as misses too.
type TemplateCache interface {
	Get(ctx context.Context, mallName string) (*mall.Template, error)
	Set(ctx context.Context, t *mall.Template) error
	Invalidate(ctx context.Context, mallName string) error
}

// TemplateService manages the mall template registry and resolves templates
// for ingestion runs, with a read-through cache in front of storage.
type TemplateService struct {
	templates mall.TemplateRepository
	cache     TemplateCache
	logger    *zap.Logger
}

// NewTemplateService creates the template service. The cache is optional.
func NewTemplateService(templates mall.TemplateRepository, cache TemplateCache, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{
		templates: templates,
		cache:     cache,
		logger:    logger,
	}
}

// Resolve returns the template for a mall name, consulting the cache first.
// Cache failures fall back to storage; the template is what matters, not the
// cache.
func (s *TemplateService) Resolve(ctx context.Context, mallName string) (*mall.Template, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "TemplateService", "Resolve",
		telemetry.WithAttribute("template.mall_name", mallName),
	)
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, mallName)
		if err != nil {
			s.logger.Warn("template cache read failed", zap.String("mall_name", mallName), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	t, err := s.templates.FindByMallName(ctx, mallName)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, t); err != nil {
			s.logger.Warn("template cache write failed", zap.String("mall_name", mallName), zap.Error(err))
		}
	}
	return t, nil
}

// Get returns one template by id
func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*mall.Template, error) {
	return s.templates.FindByID(ctx, id)
}

// List returns all templates ordered by mall name
func (s *TemplateService) List(ctx context.Context) ([]mall.Template, error) {
	return s.templates.FindAll(ctx)
}

// Create validates and stores a new template
func (s *TemplateService) Create(ctx context.Context, t *mall.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if existing, err := s.templates.FindByMallName(ctx, t.MallName); err == nil && existing != nil {
		return shared.NewDomainError("TEMPLATE_EXISTS", fmt.Sprintf("A template for mall %q already exists", t.MallName))
	}
	if err := s.templates.Save(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx, t.MallName)
	return nil
}

// Update validates and stores changes to an existing template
func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, update *mall.Template) (*mall.Template, error) {
	t, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousName := t.MallName

	t.MallName = update.MallName
	t.HeaderRow = update.HeaderRow
	t.DataStartRow = update.DataStartRow
	t.CopyFrontMatter = update.CopyFrontMatter
	t.ColumnMappings = update.ColumnMappings
	t.FixedValues = update.FixedValues
	t.ExportColumns = update.ExportColumns
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, previousName)
	if t.MallName != previousName {
		s.invalidate(ctx, t.MallName)
	}
	return t, nil
}

// Delete removes a template and drops its cache entry
func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, t.MallName)
	return nil
}

func (s *TemplateService) invalidate(ctx context.Context, mallName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, mallName); err != nil {
		s.logger.Warn("template cache invalidation failed", zap.String("mall_name", mallName), zap.Error(err))
	}
}
