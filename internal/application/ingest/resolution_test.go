package ingestapp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
)

func resolutionOrder(t *testing.T, manufacturerName, productCode, optionName string) *order.Order {
	t.Helper()
	o, err := order.NewOrder("ORD-1", "스마트몰", "무선 마우스", uuid.New())
	require.NoError(t, err)
	o.ManufacturerName = manufacturerName
	o.ProductCode = productCode
	o.OptionName = optionName
	return o
}

func TestResolveManufacturerID(t *testing.T) {
	byName := uuid.New()
	byOption := uuid.New()
	byProduct := uuid.New()

	maps := LookupMaps{
		Manufacturers: map[string]ManufacturerRef{
			"한빛산업": {ID: byName, Name: "한빛산업"},
		},
		Products: map[string]ProductRef{
			"스마트몰::sku-1": {ID: uuid.New(), ManufacturerID: &byProduct},
		},
		OptionMappings: map[OptionKey]*uuid.UUID{
			NewOptionKey("스마트몰::SKU-1", "블랙"): &byOption,
		},
	}

	t.Run("written name wins over every other tier", func(t *testing.T) {
		o := resolutionOrder(t, " 한빛산업 ", "스마트몰::SKU-1", "블랙")
		got := ResolveManufacturerID(o, maps)
		require.NotNil(t, got)
		assert.Equal(t, byName, *got)
	})

	t.Run("option mapping wins over product link", func(t *testing.T) {
		o := resolutionOrder(t, "", "스마트몰::SKU-1", "블랙")
		got := ResolveManufacturerID(o, maps)
		require.NotNil(t, got)
		assert.Equal(t, byOption, *got)
	})

	t.Run("product link is the fallback", func(t *testing.T) {
		o := resolutionOrder(t, "없음", "스마트몰::SKU-1", "화이트")
		got := ResolveManufacturerID(o, maps)
		require.NotNil(t, got)
		assert.Equal(t, byProduct, *got)
	})

	t.Run("unresolved mapping does not resolve", func(t *testing.T) {
		empty := LookupMaps{
			Manufacturers:  map[string]ManufacturerRef{},
			Products:       map[string]ProductRef{},
			OptionMappings: map[OptionKey]*uuid.UUID{NewOptionKey("c", "o"): nil},
		}
		o := resolutionOrder(t, "", "c", "o")
		assert.Nil(t, ResolveManufacturerID(o, empty))
	})

	t.Run("unknown written name stays unresolved for auto-create", func(t *testing.T) {
		o := resolutionOrder(t, "새제조사", "스마트몰::SKU-1", "블랙")
		assert.Nil(t, ResolveManufacturerID(o, maps))
	})

	t.Run("nothing matches", func(t *testing.T) {
		o := resolutionOrder(t, "", "스마트몰::SKU-9", "")
		assert.Nil(t, ResolveManufacturerID(o, maps))
	})
}
