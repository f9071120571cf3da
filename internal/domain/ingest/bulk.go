package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/shopspring/decimal"
)

// ProductAggregate is the per-product accumulation one transform run produces
// for a composite product code. Name and option fields hold the first-seen
// values; price and cost are per-unit amounts upgraded from zero to the first
// positive value seen.
type ProductAggregate struct {
	ProductCode      string
	ProductName      string
	OptionName       string
	ManufacturerName string          // as written in the file, "" when unspecified
	Price            decimal.Decimal // per unit
	Cost             decimal.Decimal // per unit
	// MappedManufacturerID carries the option-mapping snapshot resolution,
	// used for product fill only when no manufacturer name was written.
	MappedManufacturerID *uuid.UUID
}

// OptionCandidate is a (product code, option name) pair observed without a
// resolvable manufacturer. It is registered as an unresolved mapping row for
// later manual assignment; the pipeline never guesses.
type OptionCandidate struct {
	ProductCode string
	OptionName  string
}

// BulkInput is everything one ingestion run hands to the persistence stage.
type BulkInput struct {
	// ManufacturerNames are the unique candidate display names from the file,
	// deduplicated case-insensitively, unspecified placeholders removed.
	ManufacturerNames []string
	OptionCandidates  []OptionCandidate
	Products          []ProductAggregate
	Orders            []order.Order
}

// BulkResult reports what the persistence stage actually changed.
type BulkResult struct {
	AutoCreatedManufacturers []string
	InsertedOrders           int
	DuplicateOrders          int
}

// BulkStore executes the whole persistence stage of one ingestion run inside
// a single transaction: manufacturer auto-create, option-mapping candidate
// registration, product upsert with partial fill, and the idempotent order
// insert keyed on the platform order number. Any unrecoverable error aborts
// the transaction with no partial persistence.
type BulkStore interface {
	Persist(ctx context.Context, in BulkInput) (*BulkResult, error)
}
