package ingestapp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
)

func enabledPattern(t *testing.T, text string) order.ExclusionPattern {
	t.Helper()
	p, err := order.NewExclusionPattern(text)
	require.NoError(t, err)
	return *p
}

func TestExclusionMatcher(t *testing.T) {
	disabled := enabledPattern(t, "퀵서비스")
	disabled.Enabled = false

	m := NewExclusionMatcher([]order.ExclusionPattern{
		enabledPattern(t, "직접배송"),
		disabled,
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		reason, ok := m.Match("업체 직접배송 (제주)")
		assert.True(t, ok)
		assert.Equal(t, "직접배송", reason)
	})

	t.Run("disabled patterns never match", func(t *testing.T) {
		_, ok := m.Match("퀵서비스")
		assert.False(t, ok)
	})

	t.Run("empty fulfillment type never matches", func(t *testing.T) {
		_, ok := m.Match("")
		assert.False(t, ok)
	})
}

func TestExclusionMatcherApply(t *testing.T) {
	m := NewExclusionMatcher([]order.ExclusionPattern{enabledPattern(t, "직접배송")})

	o, err := order.NewOrder("ORD-1", "스마트몰", "무선 마우스", uuid.New())
	require.NoError(t, err)
	o.FulfillmentType = "직접배송"
	m.Apply(o)
	assert.True(t, o.IsExcluded())

	kept, err := order.NewOrder("ORD-2", "스마트몰", "무선 마우스", uuid.New())
	require.NoError(t, err)
	kept.FulfillmentType = "택배"
	m.Apply(kept)
	assert.False(t, kept.IsExcluded())
}
