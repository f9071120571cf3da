package mall

import (
	"fmt"
	"strings"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// Canonical field keys. Every mall template maps its own columns onto this
// fixed internal field set; the canonical output workbook and the order
// records are built from these keys only.
const (
	FieldOrderNo          = "orderNo"          // platform order number (mandatory)
	FieldMallOrderNo      = "mallOrderNo"      // mall-assigned order number
	FieldMallProductID    = "mallProductId"    // mall product identifier (mandatory)
	FieldProductName      = "productName"      // product display name
	FieldOptionName       = "optionName"       // option/variant name
	FieldManufacturerName = "manufacturerName" // manufacturer as written in the file
	FieldQuantity         = "quantity"
	FieldPaymentAmount    = "paymentAmount" // line total paid
	FieldCost             = "cost"          // line total cost
	FieldShippingCost     = "shippingCost"
	FieldFulfillmentType  = "fulfillmentType"
	FieldRecipientName    = "recipientName"
	FieldRecipientPhone   = "recipientPhone"
	FieldRecipientAddress = "recipientAddress"
	FieldPostalCode       = "postalCode"
	FieldMemo             = "memo"
)

// MandatoryFields are the identity fields a data row must carry; rows missing
// either one are recorded as row-level errors and skipped.
var MandatoryFields = []string{FieldOrderNo, FieldMallProductID}

// knownFields is the set of accepted canonical field keys
var knownFields = map[string]struct{}{
	FieldOrderNo: {}, FieldMallOrderNo: {}, FieldMallProductID: {},
	FieldProductName: {}, FieldOptionName: {}, FieldManufacturerName: {},
	FieldQuantity: {}, FieldPaymentAmount: {}, FieldCost: {},
	FieldShippingCost: {}, FieldFulfillmentType: {}, FieldRecipientName: {},
	FieldRecipientPhone: {}, FieldRecipientAddress: {}, FieldPostalCode: {},
	FieldMemo: {},
}

// IsKnownField reports whether key is an accepted canonical field key
func IsKnownField(key string) bool {
	_, ok := knownFields[key]
	return ok
}

// ColumnRef points a canonical field at a source column, either by header
// text or by 1-based column index. Exactly one of the two must be set. An
// optional header reference tolerates files that omit the column entirely;
// the field then resolves empty (or to its fixed value).
type ColumnRef struct {
	Header   string `json:"header,omitempty"`
	Column   int    `json:"column,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// IsByHeader reports whether the reference targets a header text
func (r ColumnRef) IsByHeader() bool {
	return strings.TrimSpace(r.Header) != ""
}

// Validate checks that exactly one reference form is set
func (r ColumnRef) Validate() error {
	byHeader := r.IsByHeader()
	byIndex := r.Column > 0
	if byHeader == byIndex {
		return shared.NewDomainError("INVALID_COLUMN_REF", "Column reference must set exactly one of header or column")
	}
	return nil
}

// ExportColumn describes one column of the generated canonical workbook, in
// output order: either a pass-through of a canonical field or a constant.
type ExportColumn struct {
	Label    string `json:"label"`
	Field    string `json:"field,omitempty"`
	Constant string `json:"constant,omitempty"`
}

// Validate checks the export column shape
func (c ExportColumn) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return shared.NewDomainError("INVALID_EXPORT_COLUMN", "Export column label cannot be empty")
	}
	if c.Field != "" && !IsKnownField(c.Field) {
		return shared.NewDomainError("INVALID_EXPORT_COLUMN", fmt.Sprintf("Unknown canonical field %q", c.Field))
	}
	return nil
}

// Template describes how one mall's export files map onto the canonical
// order fields. A template is immutable once resolved for a run.
type Template struct {
	shared.BaseEntity
	MallName        string               `gorm:"type:varchar(100);not null;uniqueIndex:idx_mall_template_name" json:"mall_name"`
	HeaderRow       int                  `gorm:"not null;default:1" json:"header_row"`
	DataStartRow    int                  `gorm:"not null;default:2" json:"data_start_row"`
	CopyFrontMatter bool                 `gorm:"not null;default:false" json:"copy_front_matter"`
	ColumnMappings  map[string]ColumnRef `gorm:"serializer:json;type:jsonb" json:"column_mappings"`
	FixedValues     map[string]string    `gorm:"serializer:json;type:jsonb" json:"fixed_values"`
	ExportColumns   []ExportColumn       `gorm:"serializer:json;type:jsonb" json:"export_columns"`
}

// TableName returns the table name for GORM
func (Template) TableName() string {
	return "mall_templates"
}

// NewTemplate creates a validated mall template
func NewTemplate(mallName string, headerRow, dataStartRow int, mappings map[string]ColumnRef) (*Template, error) {
	t := &Template{
		BaseEntity:     shared.NewBaseEntity(),
		MallName:       strings.TrimSpace(mallName),
		HeaderRow:      headerRow,
		DataStartRow:   dataStartRow,
		ColumnMappings: mappings,
		FixedValues:    make(map[string]string),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks structural template invariants
func (t *Template) Validate() error {
	if t.MallName == "" {
		return shared.NewDomainError("INVALID_TEMPLATE", "Mall name cannot be empty")
	}
	if t.HeaderRow < 1 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Header row must be >= 1")
	}
	if t.DataStartRow < 1 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Data start row must be >= 1")
	}
	if t.DataStartRow <= t.HeaderRow {
		return shared.NewDomainError("INVALID_TEMPLATE", "Data start row must come after the header row")
	}
	if len(t.ColumnMappings) == 0 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Template requires at least one column mapping")
	}
	for field, ref := range t.ColumnMappings {
		if !IsKnownField(field) {
			return shared.NewDomainError("INVALID_TEMPLATE", fmt.Sprintf("Unknown canonical field %q in column mappings", field))
		}
		if err := ref.Validate(); err != nil {
			return err
		}
	}
	for field := range t.FixedValues {
		if !IsKnownField(field) {
			return shared.NewDomainError("INVALID_TEMPLATE", fmt.Sprintf("Unknown canonical field %q in fixed values", field))
		}
	}
	for _, col := range t.ExportColumns {
		if err := col.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MissingHeaders returns the header-based mappings that target a header not
// present in the observed source header row. Optional references are never
// reported. The caller reports the rest as one aggregated validation error
// before any row processing begins.
func (t *Template) MissingHeaders(observed []string) []string {
	seen := make(map[string]struct{}, len(observed))
	for _, h := range observed {
		seen[shared.NormalizeKey(h)] = struct{}{}
	}

	var missing []string
	for _, ref := range t.ColumnMappings {
		if !ref.IsByHeader() || ref.Optional {
			continue
		}
		if _, ok := seen[shared.NormalizeKey(ref.Header)]; !ok {
			missing = append(missing, strings.TrimSpace(ref.Header))
		}
	}
	return missing
}

// FixedValue returns the trimmed fixed value for a field, if defined
func (t *Template) FixedValue(field string) (string, bool) {
	v, ok := t.FixedValues[field]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}
