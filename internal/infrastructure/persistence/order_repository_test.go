package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
)

func seedOrder(t *testing.T, orderNo string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(orderNo, "스마트몰", "무선 마우스", uuid.New())
	require.NoError(t, err)
	o.ProductCode = "스마트몰::P-100"
	o.OptionName = "블랙"
	return o
}

func TestGormOrderRepositoryLinkManufacturer(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	pending := seedOrder(t, "ORD-PEND")

	completed := seedOrder(t, "ORD-DONE")
	require.NoError(t, completed.Complete())

	alreadyLinked := seedOrder(t, "ORD-LINKED")
	priorID := uuid.New()
	alreadyLinked.ManufacturerID = &priorID

	require.NoError(t, db.DB.Create(pending).Error)
	require.NoError(t, db.DB.Create(completed).Error)
	require.NoError(t, db.DB.Create(alreadyLinked).Error)

	mid := uuid.New()
	affected, err := repo.LinkManufacturer(ctx, "스마트몰::p-100", "블랙", mid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	t.Run("pending order is linked", func(t *testing.T) {
		var o order.Order
		require.NoError(t, db.DB.Where("platform_order_no = ?", "ORD-PEND").First(&o).Error)
		require.NotNil(t, o.ManufacturerID)
		assert.Equal(t, mid, *o.ManufacturerID)
	})

	t.Run("completed order is never touched", func(t *testing.T) {
		var o order.Order
		require.NoError(t, db.DB.Where("platform_order_no = ?", "ORD-DONE").First(&o).Error)
		assert.Nil(t, o.ManufacturerID)
	})

	t.Run("linked order keeps its manufacturer", func(t *testing.T) {
		var o order.Order
		require.NoError(t, db.DB.Where("platform_order_no = ?", "ORD-LINKED").First(&o).Error)
		require.NotNil(t, o.ManufacturerID)
		assert.Equal(t, priorID, *o.ManufacturerID)
	})

	t.Run("different option pair is not linked", func(t *testing.T) {
		other := seedOrder(t, "ORD-OTHER")
		other.OptionName = "화이트"
		require.NoError(t, db.DB.Create(other).Error)

		affected, err := repo.LinkManufacturer(ctx, "스마트몰::p-100", "블랙", uuid.New())
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}
