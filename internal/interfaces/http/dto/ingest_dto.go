package dto

import (
	"time"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
)

// ColumnRefRequest points a canonical field at a source column
type ColumnRefRequest struct {
	Header string `json:"header,omitempty"`
	Column int    `json:"column,omitempty" binding:"omitempty,min=1"`
}

// ExportColumnRequest describes one output workbook column
type ExportColumnRequest struct {
	Label    string `json:"label" binding:"required"`
	Field    string `json:"field,omitempty"`
	Constant string `json:"constant,omitempty"`
}

// TemplateRequest is the create/update payload for a mall template
type TemplateRequest struct {
	MallName        string                      `json:"mall_name" binding:"required"`
	HeaderRow       int                         `json:"header_row" binding:"required,min=1"`
	DataStartRow    int                         `json:"data_start_row" binding:"required,min=1"`
	CopyFrontMatter bool                        `json:"copy_front_matter"`
	ColumnMappings  map[string]ColumnRefRequest `json:"column_mappings" binding:"required"`
	FixedValues     map[string]string           `json:"fixed_values"`
	ExportColumns   []ExportColumnRequest       `json:"export_columns"`
}

// ToTemplate builds a validated domain template from the request
func (r TemplateRequest) ToTemplate() (*mall.Template, error) {
	mappings := make(map[string]mall.ColumnRef, len(r.ColumnMappings))
	for field, ref := range r.ColumnMappings {
		mappings[field] = mall.ColumnRef{Header: ref.Header, Column: ref.Column}
	}
	t, err := mall.NewTemplate(r.MallName, r.HeaderRow, r.DataStartRow, mappings)
	if err != nil {
		return nil, err
	}
	t.CopyFrontMatter = r.CopyFrontMatter
	if r.FixedValues != nil {
		t.FixedValues = r.FixedValues
	}
	for _, col := range r.ExportColumns {
		t.ExportColumns = append(t.ExportColumns, mall.ExportColumn{
			Label:    col.Label,
			Field:    col.Field,
			Constant: col.Constant,
		})
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// AssignMappingRequest resolves an option mapping to a manufacturer
type AssignMappingRequest struct {
	ManufacturerID string `json:"manufacturer_id" binding:"required,uuid"`
}

// CreateManufacturerRequest registers a manufacturer by hand
type CreateManufacturerRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateContactRequest stores manufacturer contact details
type UpdateContactRequest struct {
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// CreatePatternRequest registers a fulfillment-type exclusion pattern
type CreatePatternRequest struct {
	Pattern string `json:"pattern" binding:"required"`
}

// SetEnabledRequest toggles an exclusion pattern
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// DownloadResponse carries a presigned link for a generated workbook
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
