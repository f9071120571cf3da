package ingestapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// ManufacturerService manages the manufacturer registry. Most manufacturers
// are auto-created by ingestion runs; this surface exists for listing and for
// maintaining contact details.
type ManufacturerService struct {
	manufacturers partner.ManufacturerRepository
}

// NewManufacturerService creates the manufacturer service
func NewManufacturerService(manufacturers partner.ManufacturerRepository) *ManufacturerService {
	return &ManufacturerService{manufacturers: manufacturers}
}

// List returns all manufacturers ordered by name
func (s *ManufacturerService) List(ctx context.Context) ([]partner.Manufacturer, error) {
	return s.manufacturers.FindAll(ctx)
}

// Get returns one manufacturer by id
func (s *ManufacturerService) Get(ctx context.Context, id uuid.UUID) (*partner.Manufacturer, error) {
	return s.manufacturers.FindByID(ctx, id)
}

// Create registers a manufacturer by hand. The same case-insensitive
// uniqueness as ingestion auto-creation applies.
func (s *ManufacturerService) Create(ctx context.Context, name string) (*partner.Manufacturer, error) {
	m, err := partner.NewManufacturer(name)
	if err != nil {
		return nil, err
	}
	if existing, err := s.manufacturers.FindByNameKey(ctx, m.NameKey); err == nil && existing != nil {
		return nil, shared.NewDomainError("MANUFACTURER_EXISTS", fmt.Sprintf("Manufacturer %q already exists", existing.Name))
	}
	if err := s.manufacturers.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateContact stores contact details on a manufacturer
func (s *ManufacturerService) UpdateContact(ctx context.Context, id uuid.UUID, contactName, phone, email string) (*partner.Manufacturer, error) {
	m, err := s.manufacturers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.UpdateContact(contactName, phone, email)
	if err := s.manufacturers.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
