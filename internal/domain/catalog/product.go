package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a product-code + option-name unit with a known price/cost and an
// optional manufacturer link. Product codes are composite keys of the form
// "mall::mallProductID" because mall product identifiers are only unique
// within one mall.
type Product struct {
	shared.BaseEntity
	ProductCode    string          `gorm:"type:varchar(200);not null" json:"product_code"`
	CodeKey        string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_product_code_key" json:"-"`
	ProductName    string          `gorm:"type:varchar(300);not null" json:"product_name"`
	OptionName     string          `gorm:"type:varchar(300)" json:"option_name,omitempty"`
	ManufacturerID *uuid.UUID      `gorm:"type:uuid;index" json:"manufacturer_id,omitempty"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product for a composite product code
func NewProduct(productCode, productName string) (*Product, error) {
	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		ProductCode: productCode,
		CodeKey:     shared.NormalizeKey(productCode),
		ProductName: strings.TrimSpace(productName),
		Price:       decimal.Zero,
		Cost:        decimal.Zero,
	}, nil
}

// FillForward writes candidate values only into currently empty/zero fields.
// A previously set value is never overwritten. Returns true when any field
// changed.
func (p *Product) FillForward(price, cost decimal.Decimal, manufacturerID *uuid.UUID, optionName string) bool {
	changed := false
	if p.Price.IsZero() && price.IsPositive() {
		p.Price = price
		changed = true
	}
	if p.Cost.IsZero() && cost.IsPositive() {
		p.Cost = cost
		changed = true
	}
	if p.ManufacturerID == nil && manufacturerID != nil {
		p.ManufacturerID = manufacturerID
		changed = true
	}
	if strings.TrimSpace(p.OptionName) == "" && strings.TrimSpace(optionName) != "" {
		p.OptionName = strings.TrimSpace(optionName)
		changed = true
	}
	if changed {
		p.UpdatedAt = time.Now()
	}
	return changed
}
