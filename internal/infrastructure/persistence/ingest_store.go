package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormIngestStore implements ingest.BulkStore. The whole persistence stage of
// one ingestion run executes inside a single transaction; concurrency safety
// comes from insert-on-conflict-do-nothing and from conditional updates that
// re-check field emptiness at update time instead of trusting the in-memory
// snapshot.
type GormIngestStore struct {
	db              *Database
	insertChunkSize int
	updateChunkSize int
	logger          *zap.Logger
}

// NewGormIngestStore creates a new GormIngestStore
func NewGormIngestStore(db *Database, insertChunkSize, updateChunkSize int, logger *zap.Logger) *GormIngestStore {
	if insertChunkSize <= 0 {
		insertChunkSize = 500
	}
	if updateChunkSize <= 0 {
		updateChunkSize = 100
	}
	return &GormIngestStore{
		db:              db,
		insertChunkSize: insertChunkSize,
		updateChunkSize: updateChunkSize,
		logger:          logger,
	}
}

// Persist runs all side effects of one ingestion run atomically.
func (s *GormIngestStore) Persist(ctx context.Context, in ingest.BulkInput) (*ingest.BulkResult, error) {
	result := &ingest.BulkResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)

		nameIDs, created, err := s.autoCreateManufacturers(tx, in.ManufacturerNames)
		if err != nil {
			return fmt.Errorf("manufacturer auto-create failed: %w", err)
		}
		result.AutoCreatedManufacturers = created

		if err := s.registerOptionCandidates(tx, in.OptionCandidates); err != nil {
			return fmt.Errorf("option-mapping candidate registration failed: %w", err)
		}

		if err := s.upsertProducts(tx, in.Products, nameIDs); err != nil {
			return fmt.Errorf("product upsert failed: %w", err)
		}

		inserted, err := s.insertOrders(tx, in.Orders, nameIDs)
		if err != nil {
			return fmt.Errorf("order insert failed: %w", err)
		}
		result.InsertedOrders = inserted
		result.DuplicateOrders = len(in.Orders) - inserted

		return s.refreshOrderCounts(tx, in.Orders, nameIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ingestion run persisted",
		zap.Int("inserted_orders", result.InsertedOrders),
		zap.Int("duplicate_orders", result.DuplicateOrders),
		zap.Int("auto_created_manufacturers", len(result.AutoCreatedManufacturers)),
	)
	return result, nil
}

// autoCreateManufacturers inserts every candidate name that the database does
// not hold yet, conflict-do-nothing on the normalized name key so a
// concurrent run creating the same name degrades to a no-op. Returns the
// normalized-name → id map for the full candidate set and the display names
// actually created by this run.
func (s *GormIngestStore) autoCreateManufacturers(tx *gorm.DB, names []string) (map[string]uuid.UUID, []string, error) {
	nameIDs := make(map[string]uuid.UUID, len(names))
	if len(names) == 0 {
		return nameIDs, nil, nil
	}

	keys := make([]string, 0, len(names))
	candidates := make([]partner.Manufacturer, 0, len(names))
	for _, name := range names {
		m, err := partner.NewManufacturer(name)
		if err != nil {
			// Unspecified placeholders are filtered upstream; skip defensively
			// rather than failing the whole run on one bad name.
			continue
		}
		keys = append(keys, m.NameKey)
		candidates = append(candidates, *m)
	}
	if len(candidates) == 0 {
		return nameIDs, nil, nil
	}

	// Names already present before this run are recorded only for the audit
	// "actually created" report; correctness never depends on this read.
	var existingKeys []string
	if err := tx.Model(&partner.Manufacturer{}).
		Where("name_key IN ?", keys).
		Pluck("name_key", &existingKeys).Error; err != nil {
		return nil, nil, err
	}
	existing := make(map[string]struct{}, len(existingKeys))
	for _, k := range existingKeys {
		existing[k] = struct{}{}
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name_key"}},
		DoNothing: true,
	}).CreateInBatches(&candidates, s.insertChunkSize).Error; err != nil {
		return nil, nil, err
	}

	// Re-select to learn the ids of rows another run may have won the race on.
	var rows []partner.Manufacturer
	if err := tx.Where("name_key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, m := range rows {
		nameIDs[m.NameKey] = m.ID
	}

	var created []string
	for _, m := range candidates {
		if _, ok := existing[m.NameKey]; !ok {
			created = append(created, m.Name)
		}
	}
	return nameIDs, created, nil
}

// registerOptionCandidates inserts unresolved (product code, option name)
// rows, idempotent on the normalized key pair. Manufacturer id stays null;
// these rows only surface manual-mapping work items.
func (s *GormIngestStore) registerOptionCandidates(tx *gorm.DB, candidates []ingest.OptionCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	mappings := make([]catalog.OptionMapping, 0, len(candidates))
	for _, c := range candidates {
		m, err := catalog.NewOptionMappingCandidate(c.ProductCode, c.OptionName)
		if err != nil {
			continue
		}
		mappings = append(mappings, *m)
	}
	if len(mappings) == 0 {
		return nil
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code_key"}, {Name: "option_key"}},
		DoNothing: true,
	}).CreateInBatches(&mappings, s.insertChunkSize).Error
}

// upsertProducts inserts unknown product codes, then fills empty fields of
// already-known products with one conditional batch update per chunk. The
// update re-checks emptiness in its WHERE clause, so a concurrent run can
// never un-fill a field this run already filled.
func (s *GormIngestStore) upsertProducts(tx *gorm.DB, aggregates []ingest.ProductAggregate, nameIDs map[string]uuid.UUID) error {
	if len(aggregates) == 0 {
		return nil
	}

	products := make([]catalog.Product, 0, len(aggregates))
	for _, agg := range aggregates {
		p, err := catalog.NewProduct(agg.ProductCode, agg.ProductName)
		if err != nil {
			continue
		}
		p.OptionName = strings.TrimSpace(agg.OptionName)
		p.Price = agg.Price
		p.Cost = agg.Cost
		p.ManufacturerID = s.aggregateManufacturerID(agg, nameIDs)
		products = append(products, *p)
	}
	if len(products) == 0 {
		return nil
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code_key"}},
		DoNothing: true,
	}).CreateInBatches(&products, s.insertChunkSize).Error; err != nil {
		return err
	}

	for start := 0; start < len(products); start += s.updateChunkSize {
		end := start + s.updateChunkSize
		if end > len(products) {
			end = len(products)
		}
		if err := s.fillProductChunk(tx, products[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// aggregateManufacturerID resolves the candidate manufacturer for a product
// aggregate: explicit manufacturer name first, else the option-mapping
// snapshot resolution, else none.
func (s *GormIngestStore) aggregateManufacturerID(agg ingest.ProductAggregate, nameIDs map[string]uuid.UUID) *uuid.UUID {
	if !partner.IsUnspecifiedName(agg.ManufacturerName) {
		if id, ok := nameIDs[shared.NormalizeKey(agg.ManufacturerName)]; ok {
			return &id
		}
	}
	return agg.MappedManufacturerID
}

// fillProductChunk updates one chunk of products in a single round trip.
// Each candidate row joins against the live table and only writes into fields
// that are empty/zero at update time.
func (s *GormIngestStore) fillProductChunk(tx *gorm.DB, chunk []catalog.Product) error {
	if len(chunk) == 0 {
		return nil
	}

	if tx.Dialector.Name() != "postgres" {
		// sqlite (used by tests) cannot name VALUES columns in UPDATE..FROM,
		// so fall back to one conditional statement per row.
		return s.fillProductRows(tx, chunk)
	}

	var (
		values []string
		args   []interface{}
		n      = 1
	)
	for _, p := range chunk {
		values = append(values, fmt.Sprintf("($%d, $%d::numeric, $%d::numeric, $%d::uuid, $%d)", n, n+1, n+2, n+3, n+4))
		args = append(args, p.CodeKey, p.Price, p.Cost, p.ManufacturerID, p.OptionName)
		n += 5
	}

	sql := `
UPDATE products AS p SET
  price = CASE WHEN p.price = 0 AND v.price > 0 THEN v.price ELSE p.price END,
  cost = CASE WHEN p.cost = 0 AND v.cost > 0 THEN v.cost ELSE p.cost END,
  manufacturer_id = CASE WHEN p.manufacturer_id IS NULL THEN v.manufacturer_id ELSE p.manufacturer_id END,
  option_name = CASE WHEN TRIM(COALESCE(p.option_name, '')) = '' AND v.option_name <> '' THEN v.option_name ELSE p.option_name END,
  updated_at = NOW()
FROM (VALUES ` + strings.Join(values, ", ") + `) AS v(code_key, price, cost, manufacturer_id, option_name)
WHERE p.code_key = v.code_key AND (
  (p.price = 0 AND v.price > 0) OR
  (p.cost = 0 AND v.cost > 0) OR
  (p.manufacturer_id IS NULL AND v.manufacturer_id IS NOT NULL) OR
  (TRIM(COALESCE(p.option_name, '')) = '' AND v.option_name <> '')
)`

	return tx.Exec(sql, args...).Error
}

// fillProductRows is the portable per-row variant of fillProductChunk.
func (s *GormIngestStore) fillProductRows(tx *gorm.DB, chunk []catalog.Product) error {
	for _, p := range chunk {
		err := tx.Exec(`
UPDATE products SET
  price = CASE WHEN price = 0 AND ? > 0 THEN ? ELSE price END,
  cost = CASE WHEN cost = 0 AND ? > 0 THEN ? ELSE cost END,
  manufacturer_id = CASE WHEN manufacturer_id IS NULL THEN ? ELSE manufacturer_id END,
  option_name = CASE WHEN TRIM(COALESCE(option_name, '')) = '' AND ? <> '' THEN ? ELSE option_name END
WHERE code_key = ?`,
			p.Price, p.Price, p.Cost, p.Cost, p.ManufacturerID,
			p.OptionName, p.OptionName, p.CodeKey,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// insertOrders back-fills manufacturer ids learned from this run's
// auto-created names, then inserts all canonical orders with
// conflict-do-nothing on the platform order number. The rows-affected count
// against the submitted count yields the duplicate-order count.
func (s *GormIngestStore) insertOrders(tx *gorm.DB, orders []order.Order, nameIDs map[string]uuid.UUID) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	for i := range orders {
		if orders[i].ManufacturerID != nil {
			continue
		}
		if partner.IsUnspecifiedName(orders[i].ManufacturerName) {
			continue
		}
		if id, ok := nameIDs[shared.NormalizeKey(orders[i].ManufacturerName)]; ok {
			orders[i].ManufacturerID = &id
		}
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "platform_order_no"}},
		DoNothing: true,
	}).CreateInBatches(&orders, s.insertChunkSize)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// refreshOrderCounts recomputes the running order count of every manufacturer
// this run touched. Recomputing from the orders table keeps the counter
// correct under concurrent runs and duplicate skips.
func (s *GormIngestStore) refreshOrderCounts(tx *gorm.DB, orders []order.Order, nameIDs map[string]uuid.UUID) error {
	touched := make(map[uuid.UUID]struct{})
	for _, o := range orders {
		if o.ManufacturerID != nil {
			touched[*o.ManufacturerID] = struct{}{}
		}
	}
	for _, id := range nameIDs {
		touched[id] = struct{}{}
	}
	if len(touched) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}

	return tx.Exec(`
UPDATE manufacturers SET order_count = (
  SELECT COUNT(*) FROM orders WHERE orders.manufacturer_id = manufacturers.id
) WHERE id IN ?`, ids).Error
}
