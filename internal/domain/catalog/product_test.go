package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("  MallX::123  ", " 여름 티셔츠 ")
	require.NoError(t, err)
	assert.Equal(t, "MallX::123", p.ProductCode)
	assert.Equal(t, "mallx::123", p.CodeKey)
	assert.Equal(t, "여름 티셔츠", p.ProductName)
	assert.True(t, p.Price.IsZero())

	_, err = NewProduct("   ", "name")
	assert.Error(t, err)
}

func TestFillForward(t *testing.T) {
	mid := uuid.New()

	t.Run("fills empty fields only", func(t *testing.T) {
		p, err := NewProduct("mallx::123", "Shirt")
		require.NoError(t, err)

		changed := p.FillForward(decimal.NewFromInt(1000), decimal.NewFromInt(300), &mid, "Red/L")
		assert.True(t, changed)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(1000)))
		assert.True(t, p.Cost.Equal(decimal.NewFromInt(300)))
		require.NotNil(t, p.ManufacturerID)
		assert.Equal(t, mid, *p.ManufacturerID)
		assert.Equal(t, "Red/L", p.OptionName)
	})

	t.Run("never overwrites a set value", func(t *testing.T) {
		p, err := NewProduct("mallx::123", "Shirt")
		require.NoError(t, err)
		p.Price = decimal.NewFromInt(1000)

		other := uuid.New()
		changed := p.FillForward(decimal.NewFromInt(500), decimal.NewFromInt(300), &other, "Blue/M")
		assert.True(t, changed)
		// Price stays, cost fills
		assert.True(t, p.Price.Equal(decimal.NewFromInt(1000)))
		assert.True(t, p.Cost.Equal(decimal.NewFromInt(300)))

		changed = p.FillForward(decimal.NewFromInt(700), decimal.NewFromInt(900), &mid, "Green/S")
		assert.False(t, changed)
		assert.True(t, p.Cost.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, other, *p.ManufacturerID)
		assert.Equal(t, "Blue/M", p.OptionName)
	})

	t.Run("zero candidate does not fill", func(t *testing.T) {
		p, err := NewProduct("mallx::123", "Shirt")
		require.NoError(t, err)

		changed := p.FillForward(decimal.Zero, decimal.Zero, nil, "")
		assert.False(t, changed)
		assert.True(t, p.Price.IsZero())
		assert.Nil(t, p.ManufacturerID)
	})
}
