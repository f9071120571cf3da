package ingestapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LinkResult reports one manual mapping assignment and its order back-fill
type LinkResult struct {
	Mapping      *catalog.OptionMapping `json:"mapping"`
	LinkedOrders int64                  `json:"linked_orders"`
}

// LinkingService resolves option-mapping work items: an operator assigns a
// manufacturer to an unresolved (product code, option name) pair, and the
// assignment is back-filled onto matching pending orders. Completed orders
// are never touched.
type LinkingService struct {
	mappings      catalog.OptionMappingRepository
	manufacturers partner.ManufacturerRepository
	orders        order.Repository
	logger        *zap.Logger
}

// NewLinkingService creates the manual linking service
func NewLinkingService(mappings catalog.OptionMappingRepository, manufacturers partner.ManufacturerRepository, orders order.Repository, logger *zap.Logger) *LinkingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkingService{
		mappings:      mappings,
		manufacturers: manufacturers,
		orders:        orders,
		logger:        logger,
	}
}

// ListUnresolved returns the open mapping work items, oldest first
func (s *LinkingService) ListUnresolved(ctx context.Context) ([]catalog.OptionMapping, error) {
	return s.mappings.FindUnresolved(ctx)
}

// List returns all option mappings
func (s *LinkingService) List(ctx context.Context) ([]catalog.OptionMapping, error) {
	return s.mappings.FindAll(ctx)
}

// Assign resolves one mapping to a manufacturer and back-fills the link onto
// pending orders matching the normalized (code, option) pair.
func (s *LinkingService) Assign(ctx context.Context, mappingID, manufacturerID uuid.UUID) (*LinkResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "LinkingService", "Assign",
		telemetry.WithAttribute("mapping.id", mappingID.String()),
	)
	defer span.End()

	m, err := s.mappings.FindByID(ctx, mappingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.manufacturers.FindByID(ctx, manufacturerID); err != nil {
		return nil, fmt.Errorf("manufacturer lookup failed: %w", err)
	}
	if err := m.Assign(manufacturerID); err != nil {
		return nil, err
	}
	if err := s.mappings.Save(ctx, m); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	linked, err := s.orders.LinkManufacturer(ctx, m.CodeKey, m.OptionKey, manufacturerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to back-fill orders: %w", err)
	}

	s.logger.Info("option mapping assigned",
		zap.String("mapping_id", mappingID.String()),
		zap.String("manufacturer_id", manufacturerID.String()),
		zap.Int64("linked_orders", linked),
	)
	return &LinkResult{Mapping: m, LinkedOrders: linked}, nil
}
