package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Order is one purchased line item from a shopping trip, normalized from a
// mall export row. The platform order number is the external identity and
// the idempotency key for ingestion: duplicate order numbers are silently
// skipped on insert, never overwritten. The pipeline itself never updates an
// order after insert; later manufacturer-linking write-backs must exclude
// completed orders.
type Order struct {
	shared.BaseEntity
	PlatformOrderNo  string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_order_platform_no" json:"platform_order_no"`
	MallOrderNo      string          `gorm:"type:varchar(100)" json:"mall_order_no,omitempty"`
	MallName         string          `gorm:"type:varchar(100);not null" json:"mall_name"`
	ProductName      string          `gorm:"type:varchar(300);not null" json:"product_name"`
	OptionName       string          `gorm:"type:varchar(300)" json:"option_name,omitempty"`
	ProductCode      string          `gorm:"type:varchar(200);index" json:"product_code,omitempty"`
	ManufacturerID   *uuid.UUID      `gorm:"type:uuid;index" json:"manufacturer_id,omitempty"`
	ManufacturerName string          `gorm:"type:varchar(200)" json:"manufacturer_name,omitempty"`
	Quantity         int             `gorm:"not null;default:1" json:"quantity"`
	PaymentAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"payment_amount"`
	Cost             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cost"`
	ShippingCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"shipping_cost"`
	FulfillmentType  string          `gorm:"type:varchar(200)" json:"fulfillment_type,omitempty"`
	ExclusionReason  *string         `gorm:"type:varchar(200)" json:"exclusion_reason,omitempty"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	UploadID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"upload_id"`
	RecipientName    string          `gorm:"type:varchar(100)" json:"recipient_name,omitempty"`
	RecipientPhone   string          `gorm:"type:varchar(50)" json:"recipient_phone,omitempty"`
	RecipientAddress string          `gorm:"type:text" json:"recipient_address,omitempty"`
	PostalCode       string          `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
	Memo             string          `gorm:"type:text" json:"memo,omitempty"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order for an ingestion run
func NewOrder(platformOrderNo, mallName, productName string, uploadID uuid.UUID) (*Order, error) {
	platformOrderNo = strings.TrimSpace(platformOrderNo)
	if platformOrderNo == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NO", "Platform order number cannot be empty")
	}
	if uploadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPLOAD", "Upload id is required")
	}

	return &Order{
		BaseEntity:      shared.NewBaseEntity(),
		PlatformOrderNo: platformOrderNo,
		MallName:        strings.TrimSpace(mallName),
		ProductName:     strings.TrimSpace(productName),
		Quantity:        1,
		PaymentAmount:   decimal.Zero,
		Cost:            decimal.Zero,
		ShippingCost:    decimal.Zero,
		Status:          StatusPending,
		UploadID:        uploadID,
	}, nil
}

// Exclude marks the order excluded from downstream manufacturer email,
// recording the matched pattern. The order itself is kept.
func (o *Order) Exclude(reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	o.ExclusionReason = &reason
}

// IsExcluded reports whether the order is excluded from downstream email
func (o *Order) IsExcluded() bool {
	return o.ExclusionReason != nil
}

// Complete transitions the order to the completed status
func (o *Order) Complete() error {
	if o.Status == StatusCompleted {
		return shared.ErrInvalidState
	}
	o.Status = StatusCompleted
	return nil
}
