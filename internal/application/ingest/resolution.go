package ingestapp

import (
	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// ResolveManufacturerID assigns a manufacturer to a canonical order using the
// fixed 3-tier priority rule, first match wins:
//
//  1. The manufacturer name written in the source file is ground truth; when
//     the snapshot knows the name, its id is returned without consulting the
//     other tiers.
//  2. The option mapping for the (product code, option name) pair, being more
//     specific than the product link, is tried next.
//  3. The product's own manufacturer link is the fallback.
//
// Returns nil when unresolved: the order persists without a manufacturer and
// surfaces later for manual linking. A name the snapshot does not know yet is
// auto-created by the persistence stage, which back-fills the id there; the
// other tiers are never consulted once a name is written.
func ResolveManufacturerID(o *order.Order, maps LookupMaps) *uuid.UUID {
	if !partner.IsUnspecifiedName(o.ManufacturerName) {
		if ref, ok := maps.Manufacturers[shared.NormalizeKey(o.ManufacturerName)]; ok {
			id := ref.ID
			return &id
		}
		return nil
	}

	if o.ProductCode != "" && o.OptionName != "" {
		if mid, ok := maps.OptionMappings[NewOptionKey(o.ProductCode, o.OptionName)]; ok && mid != nil {
			id := *mid
			return &id
		}
	}

	if o.ProductCode != "" {
		if ref, ok := maps.Products[shared.NormalizeKey(o.ProductCode)]; ok && ref.ManufacturerID != nil {
			id := *ref.ManufacturerID
			return &id
		}
	}

	return nil
}
