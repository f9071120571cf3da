package order

import (
	"strings"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// ExclusionPattern marks orders whose fulfillment-type text contains the
// pattern as excluded from downstream manufacturer email. Matching is
// case-insensitive substring; disabled patterns are ignored.
type ExclusionPattern struct {
	shared.BaseEntity
	Pattern string `gorm:"type:varchar(200);not null" json:"pattern"`
	Enabled bool   `gorm:"not null;default:true" json:"enabled"`
}

// TableName returns the table name for GORM
func (ExclusionPattern) TableName() string {
	return "exclusion_patterns"
}

// NewExclusionPattern creates an enabled exclusion pattern
func NewExclusionPattern(pattern string) (*ExclusionPattern, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, shared.NewDomainError("INVALID_PATTERN", "Exclusion pattern cannot be empty")
	}

	return &ExclusionPattern{
		BaseEntity: shared.NewBaseEntity(),
		Pattern:    pattern,
		Enabled:    true,
	}, nil
}

// Matches reports whether the fulfillment-type text matches this pattern
func (p *ExclusionPattern) Matches(fulfillmentType string) bool {
	if !p.Enabled {
		return false
	}
	return strings.Contains(
		strings.ToLower(fulfillmentType),
		strings.ToLower(strings.TrimSpace(p.Pattern)),
	)
}
