package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// OptionMapping is an explicit (product code, option name) → manufacturer
// association, used when option variants of one product ship from different
// manufacturers. A row with a nil manufacturer id is a discovered candidate
// awaiting manual assignment; the pipeline never guesses a manufacturer for
// it.
type OptionMapping struct {
	shared.BaseEntity
	ProductCode    string     `gorm:"type:varchar(200);not null" json:"product_code"`
	CodeKey        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_option_mapping_key,priority:1" json:"-"`
	OptionName     string     `gorm:"type:varchar(300);not null" json:"option_name"`
	OptionKey      string     `gorm:"type:varchar(300);not null;uniqueIndex:idx_option_mapping_key,priority:2" json:"-"`
	ManufacturerID *uuid.UUID `gorm:"type:uuid;index" json:"manufacturer_id,omitempty"`
}

// TableName returns the table name for GORM
func (OptionMapping) TableName() string {
	return "option_mappings"
}

// NewOptionMappingCandidate creates an unresolved option-mapping candidate
func NewOptionMappingCandidate(productCode, optionName string) (*OptionMapping, error) {
	productCode = strings.TrimSpace(productCode)
	optionName = strings.TrimSpace(optionName)
	if productCode == "" || optionName == "" {
		return nil, shared.NewDomainError("INVALID_OPTION_MAPPING", "Product code and option name are required")
	}

	return &OptionMapping{
		BaseEntity:  shared.NewBaseEntity(),
		ProductCode: productCode,
		CodeKey:     shared.NormalizeKey(productCode),
		OptionName:  optionName,
		OptionKey:   shared.NormalizeKey(optionName),
	}, nil
}

// Assign links the mapping to a manufacturer, resolving the candidate
func (m *OptionMapping) Assign(manufacturerID uuid.UUID) error {
	if manufacturerID == uuid.Nil {
		return shared.NewDomainError("INVALID_MANUFACTURER", "Manufacturer id is required")
	}
	m.ManufacturerID = &manufacturerID
	return nil
}

// IsResolved reports whether the mapping has a manufacturer assigned
func (m *OptionMapping) IsResolved() bool {
	return m.ManufacturerID != nil
}
