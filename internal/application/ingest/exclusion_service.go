package ingestapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
)

// ExclusionService manages the fulfillment-type exclusion patterns consulted
// by every ingestion run.
type ExclusionService struct {
	patterns order.ExclusionPatternRepository
}

// NewExclusionService creates the exclusion pattern service
func NewExclusionService(patterns order.ExclusionPatternRepository) *ExclusionService {
	return &ExclusionService{patterns: patterns}
}

// List returns all patterns, enabled or not
func (s *ExclusionService) List(ctx context.Context) ([]order.ExclusionPattern, error) {
	return s.patterns.FindAll(ctx)
}

// Create registers a new enabled pattern
func (s *ExclusionService) Create(ctx context.Context, pattern string) (*order.ExclusionPattern, error) {
	p, err := order.NewExclusionPattern(pattern)
	if err != nil {
		return nil, err
	}
	if err := s.patterns.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetEnabled toggles a pattern without deleting its history
func (s *ExclusionService) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*order.ExclusionPattern, error) {
	p, err := s.patterns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Enabled = enabled
	if err := s.patterns.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a pattern
func (s *ExclusionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patterns.Delete(ctx, id)
}
