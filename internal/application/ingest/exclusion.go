package ingestapp

import (
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
)

// ExclusionMatcher checks order fulfillment-type text against the enabled
// exclusion patterns. A match marks the order excluded from downstream
// manufacturer email; the order itself is always kept.
type ExclusionMatcher struct {
	patterns []order.ExclusionPattern
}

// NewExclusionMatcher creates a matcher over a pattern snapshot
func NewExclusionMatcher(patterns []order.ExclusionPattern) *ExclusionMatcher {
	return &ExclusionMatcher{patterns: patterns}
}

// Match returns the first matching enabled pattern for the fulfillment-type
// text.
func (m *ExclusionMatcher) Match(fulfillmentType string) (string, bool) {
	if fulfillmentType == "" {
		return "", false
	}
	for _, p := range m.patterns {
		if p.Matches(fulfillmentType) {
			return p.Pattern, true
		}
	}
	return "", false
}

// Apply marks the order excluded when its fulfillment type matches a pattern
func (m *ExclusionMatcher) Apply(o *order.Order) {
	if reason, ok := m.Match(o.FulfillmentType); ok {
		o.Exclude(reason)
	}
}
