package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
)

func openTestDatabase(t *testing.T, dsn string) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&partner.Manufacturer{},
		&catalog.Product{},
		&catalog.OptionMapping{},
		&order.Order{},
	))

	d := NewDatabaseFromGorm(db)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	return openTestDatabase(t, ":memory:")
}

// newSharedTestDatabase opens a file-backed database that multiple
// connections can write concurrently. Transactions begin immediate so two
// writers serialize instead of deadlocking on a lock upgrade.
func newSharedTestDatabase(t *testing.T) *Database {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "ingest.db") + "?_busy_timeout=5000&_txlock=immediate"
	return openTestDatabase(t, dsn)
}

func newTestStore(t *testing.T) (*GormIngestStore, *Database) {
	t.Helper()
	db := newTestDatabase(t)
	return NewGormIngestStore(db, 500, 100, zap.NewNop()), db
}

func testOrder(t *testing.T, orderNo, productCode, manufacturerName string) order.Order {
	t.Helper()
	o, err := order.NewOrder(orderNo, "스마트몰", "무선 마우스", uuid.New())
	require.NoError(t, err)
	o.ProductCode = productCode
	o.ManufacturerName = manufacturerName
	return *o
}

func TestPersistIdempotentOrders(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	input := ingest.BulkInput{
		Orders: []order.Order{
			testOrder(t, "ORD-1", "스마트몰::P-100", ""),
			testOrder(t, "ORD-2", "스마트몰::P-200", ""),
		},
	}

	first, err := store.Persist(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, first.InsertedOrders)
	assert.Equal(t, 0, first.DuplicateOrders)

	// Same file again: every platform order number already exists.
	second, err := store.Persist(ctx, ingest.BulkInput{
		Orders: []order.Order{
			testOrder(t, "ORD-1", "스마트몰::P-100", ""),
			testOrder(t, "ORD-2", "스마트몰::P-200", ""),
			testOrder(t, "ORD-3", "스마트몰::P-100", ""),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.InsertedOrders)
	assert.Equal(t, 2, second.DuplicateOrders)

	var count int64
	require.NoError(t, db.DB.Model(&order.Order{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestPersistAutoCreatesManufacturers(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	existing, err := partner.NewManufacturer("한빛산업")
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(existing).Error)

	result, err := store.Persist(ctx, ingest.BulkInput{
		ManufacturerNames: []string{"한빛산업", "새로운컴퍼니"},
		Orders: []order.Order{
			testOrder(t, "ORD-1", "스마트몰::P-100", "한빛산업"),
			testOrder(t, "ORD-2", "스마트몰::P-200", "새로운컴퍼니"),
		},
	})
	require.NoError(t, err)

	// Only the unseen name counts as created.
	assert.Equal(t, []string{"새로운컴퍼니"}, result.AutoCreatedManufacturers)

	var total int64
	require.NoError(t, db.DB.Model(&partner.Manufacturer{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)

	t.Run("orders are back-filled with the created id", func(t *testing.T) {
		var o order.Order
		require.NoError(t, db.DB.Where("platform_order_no = ?", "ORD-2").First(&o).Error)
		require.NotNil(t, o.ManufacturerID)

		var m partner.Manufacturer
		require.NoError(t, db.DB.First(&m, "id = ?", *o.ManufacturerID).Error)
		assert.Equal(t, "새로운컴퍼니", m.Name)
	})

	t.Run("order counts are refreshed", func(t *testing.T) {
		var m partner.Manufacturer
		require.NoError(t, db.DB.Where("name_key = ?", "한빛산업").First(&m).Error)
		assert.Equal(t, 1, m.OrderCount)
	})

	t.Run("re-running creates nothing new", func(t *testing.T) {
		again, err := store.Persist(ctx, ingest.BulkInput{
			ManufacturerNames: []string{"새로운컴퍼니"},
		})
		require.NoError(t, err)
		assert.Empty(t, again.AutoCreatedManufacturers)

		require.NoError(t, db.DB.Model(&partner.Manufacturer{}).Count(&total).Error)
		assert.Equal(t, int64(2), total)
	})
}

func TestPersistConcurrentAutoCreate(t *testing.T) {
	db := newSharedTestDatabase(t)
	store := NewGormIngestStore(db, 500, 100, zap.NewNop())

	// Two runs race on the same unseen manufacturer name; the conflict-do-
	// nothing insert must leave exactly one row and fail neither run.
	inputs := make([]ingest.BulkInput, 2)
	for i := range inputs {
		inputs[i] = ingest.BulkInput{
			ManufacturerNames: []string{"동시생성상사"},
			Orders: []order.Order{
				testOrder(t, fmt.Sprintf("ORD-RACE-%d", i), "스마트몰::P-900", "동시생성상사"),
			},
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Persist(context.Background(), inputs[i])
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var count int64
	require.NoError(t, db.DB.Model(&partner.Manufacturer{}).
		Where("name_key = ?", "동시생성상사").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var m partner.Manufacturer
	require.NoError(t, db.DB.Where("name_key = ?", "동시생성상사").First(&m).Error)

	t.Run("both runs back-fill the single winner id", func(t *testing.T) {
		var orders []order.Order
		require.NoError(t, db.DB.Where("platform_order_no LIKE ?", "ORD-RACE-%").Find(&orders).Error)
		require.Len(t, orders, 2)
		for _, o := range orders {
			require.NotNil(t, o.ManufacturerID)
			assert.Equal(t, m.ID, *o.ManufacturerID)
		}
	})

	t.Run("order count reflects both runs", func(t *testing.T) {
		assert.Equal(t, 2, m.OrderCount)
	})
}

func TestPersistProductFillForward(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	seeded, err := catalog.NewProduct("스마트몰::P-100", "무선 마우스")
	require.NoError(t, err)
	seeded.Price = decimal.NewFromInt(1000)
	require.NoError(t, db.DB.Create(seeded).Error)

	_, err = store.Persist(ctx, ingest.BulkInput{
		Products: []ingest.ProductAggregate{
			{
				ProductCode: "스마트몰::P-100",
				ProductName: "무선 마우스 2026",
				OptionName:  "블랙",
				Price:       decimal.NewFromInt(2000),
				Cost:        decimal.NewFromInt(300),
			},
			{
				ProductCode: "스마트몰::P-200",
				ProductName: "키보드",
				Price:       decimal.NewFromInt(30000),
			},
		},
	})
	require.NoError(t, err)

	t.Run("known product fills empty fields only", func(t *testing.T) {
		var p catalog.Product
		require.NoError(t, db.DB.Where("code_key = ?", "스마트몰::p-100").First(&p).Error)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(1000)), "price regressed to %s", p.Price)
		assert.True(t, p.Cost.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, "블랙", p.OptionName)
		assert.Equal(t, "무선 마우스", p.ProductName)
	})

	t.Run("unknown product is inserted", func(t *testing.T) {
		var p catalog.Product
		require.NoError(t, db.DB.Where("code_key = ?", "스마트몰::p-200").First(&p).Error)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(30000)))
	})
}

func TestPersistCompositeKeysStayDistinct(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	_, err := store.Persist(ctx, ingest.BulkInput{
		Products: []ingest.ProductAggregate{
			{ProductCode: "몰에이::123", ProductName: "상품 A"},
			{ProductCode: "몰비::123", ProductName: "상품 B"},
		},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.DB.Model(&catalog.Product{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPersistRegistersOptionCandidates(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	input := ingest.BulkInput{
		OptionCandidates: []ingest.OptionCandidate{
			{ProductCode: "스마트몰::P-100", OptionName: "블랙"},
		},
	}

	_, err := store.Persist(ctx, input)
	require.NoError(t, err)

	var m catalog.OptionMapping
	require.NoError(t, db.DB.Where("code_key = ? AND option_key = ?", "스마트몰::p-100", "블랙").First(&m).Error)
	assert.Nil(t, m.ManufacturerID)

	t.Run("re-registration is a no-op", func(t *testing.T) {
		_, err := store.Persist(ctx, input)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.DB.Model(&catalog.OptionMapping{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("assigned mapping is not reset", func(t *testing.T) {
		mid := uuid.New()
		require.NoError(t, db.DB.Model(&catalog.OptionMapping{}).
			Where("id = ?", m.ID).
			Update("manufacturer_id", mid).Error)

		_, err := store.Persist(ctx, input)
		require.NoError(t, err)

		var after catalog.OptionMapping
		require.NoError(t, db.DB.First(&after, "id = ?", m.ID).Error)
		require.NotNil(t, after.ManufacturerID)
		assert.Equal(t, mid, *after.ManufacturerID)
	})
}

func TestFillProductChunkPostgresBinding(t *testing.T) {
	db, mock := newMockGorm(t)
	store := NewGormIngestStore(nil, 500, 100, zap.NewNop())

	mid := uuid.New()
	chunk := []catalog.Product{
		{
			CodeKey:        "스마트몰::p-100",
			Price:          decimal.NewFromInt(2000),
			Cost:           decimal.NewFromInt(300),
			ManufacturerID: &mid,
			OptionName:     "블랙",
		},
		{
			CodeKey: "스마트몰::p-200",
			Price:   decimal.Zero,
			Cost:    decimal.Zero,
		},
	}

	// One round trip for the whole chunk, five placeholders per row in
	// (code_key, price, cost, manufacturer_id, option_name) order.
	mock.ExpectExec(`(?s)UPDATE products AS p SET.*FROM \(VALUES \(\$1, \$2::numeric, \$3::numeric, \$4::uuid, \$5\), \(\$6, \$7::numeric, \$8::numeric, \$9::uuid, \$10\)\) AS v`).
		WithArgs(
			"스마트몰::p-100", decimal.NewFromInt(2000), decimal.NewFromInt(300), mid, "블랙",
			"스마트몰::p-200", decimal.Zero, decimal.Zero, nil, "",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.fillProductChunk(db, chunk))
	assert.NoError(t, mock.ExpectationsWereMet())
}
