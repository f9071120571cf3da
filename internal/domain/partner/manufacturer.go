package partner

import (
	"strings"
	"time"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
)

// unspecifiedNames are manufacturer names that normalize to "no manufacturer".
// A source file carrying one of these is treated as unspecified, not as an
// auto-create candidate and not as an error.
var unspecifiedNames = map[string]struct{}{
	"":     {},
	"-":    {},
	"없음":   {},
	"미정":   {},
	"none": {},
}

// IsUnspecifiedName reports whether a manufacturer name, after key
// normalization, means "no manufacturer specified".
func IsUnspecifiedName(name string) bool {
	_, ok := unspecifiedNames[shared.NormalizeKey(name)]
	return ok
}

// Manufacturer represents a supplier responsible for fulfilling orders.
// Manufacturers are created lazily during ingestion when a previously unseen
// name appears in a source file, or explicitly by an operator. The pipeline
// never deletes them.
type Manufacturer struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	NameKey     string `gorm:"type:varchar(200);not null;uniqueIndex:idx_manufacturer_name_key" json:"-"`
	ContactName string `gorm:"type:varchar(100)" json:"contact_name,omitempty"`
	Phone       string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email       string `gorm:"type:varchar(200)" json:"email,omitempty"`
	OrderCount  int    `gorm:"not null;default:0" json:"order_count"`
}

// TableName returns the table name for GORM
func (Manufacturer) TableName() string {
	return "manufacturers"
}

// NewManufacturer creates a new manufacturer with the given display name.
// The name is trimmed; the normalized key drives the unique constraint.
func NewManufacturer(name string) (*Manufacturer, error) {
	name = strings.TrimSpace(name)
	if IsUnspecifiedName(name) {
		return nil, shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot be empty or a placeholder")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot exceed 200 characters")
	}

	return &Manufacturer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		NameKey:    shared.NormalizeKey(name),
	}, nil
}

// UpdateContact updates the manufacturer's contact fields
func (m *Manufacturer) UpdateContact(contactName, phone, email string) {
	m.ContactName = strings.TrimSpace(contactName)
	m.Phone = strings.TrimSpace(phone)
	m.Email = strings.TrimSpace(email)
	m.UpdatedAt = time.Now()
}
