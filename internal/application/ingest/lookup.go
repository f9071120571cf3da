package ingestapp

import (
	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// ManufacturerRef is the lookup view of a stored manufacturer
type ManufacturerRef struct {
	ID   uuid.UUID
	Name string
}

// ProductRef is the lookup view of a stored product
type ProductRef struct {
	ID             uuid.UUID
	ManufacturerID *uuid.UUID
}

// OptionKey is the value-type composite key of an option mapping. Both parts
// are normalized at construction, so map equality and database key equality
// can never drift apart.
type OptionKey struct {
	Code   string
	Option string
}

// NewOptionKey builds a normalized option key
func NewOptionKey(productCode, optionName string) OptionKey {
	return OptionKey{
		Code:   shared.NormalizeKey(productCode),
		Option: shared.NormalizeKey(optionName),
	}
}

// LookupMaps are the in-memory indexes resolution runs against. They are
// built once per ingestion run from a storage snapshot and never re-queried
// per row; staleness against concurrent uploads is resolved by the
// conflict-tolerant persistence stage, not here.
type LookupMaps struct {
	Manufacturers     map[string]ManufacturerRef // normalized name -> ref
	ManufacturerNames map[uuid.UUID]string       // id -> display name
	Products          map[string]ProductRef      // normalized composite code -> ref
	OptionMappings    map[OptionKey]*uuid.UUID   // nil while a candidate is unresolved
}

// BuildLookupMaps indexes the already-fetched snapshots. Pure and
// synchronous; no I/O happens here.
func BuildLookupMaps(
	manufacturers []partner.Manufacturer,
	products []catalog.Product,
	optionMappings []catalog.OptionMapping,
) LookupMaps {
	maps := LookupMaps{
		Manufacturers:     make(map[string]ManufacturerRef, len(manufacturers)),
		ManufacturerNames: make(map[uuid.UUID]string, len(manufacturers)),
		Products:          make(map[string]ProductRef, len(products)),
		OptionMappings:    make(map[OptionKey]*uuid.UUID, len(optionMappings)),
	}

	for _, m := range manufacturers {
		maps.Manufacturers[m.NameKey] = ManufacturerRef{ID: m.ID, Name: m.Name}
		maps.ManufacturerNames[m.ID] = m.Name
	}
	for _, p := range products {
		maps.Products[p.CodeKey] = ProductRef{ID: p.ID, ManufacturerID: p.ManufacturerID}
	}
	for _, om := range optionMappings {
		maps.OptionMappings[OptionKey{Code: om.CodeKey, Option: om.OptionKey}] = om.ManufacturerID
	}

	return maps
}
