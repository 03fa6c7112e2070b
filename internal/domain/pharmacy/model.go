package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Expiry statuses derived from the expiry date.
const (
	ExpiryExpired  = "expired"
	ExpiryExpiring = "expiring"
	ExpiryCurrent  = "current"
)

// ExpiringWindow is how far ahead a medication counts as expiring.
const ExpiringWindow = 30 * 24 * time.Hour

type Medication struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	Name                 string     `db:"name" json:"name"`
	GenericName          *string    `db:"generic_name" json:"generic_name,omitempty"`
	Form                 string     `db:"form" json:"form"`
	Strength             *string    `db:"strength" json:"strength,omitempty"`
	Barcode              *string    `db:"barcode" json:"barcode,omitempty"`
	SanitaryRegistry     *string    `db:"sanitary_registry" json:"sanitary_registry,omitempty"`
	Manufacturer         *string    `db:"manufacturer" json:"manufacturer,omitempty"`
	StockQuantity        int        `db:"stock_quantity" json:"stock_quantity"`
	Unit                 string     `db:"unit" json:"unit"`
	MinimumStock         int        `db:"minimum_stock" json:"minimum_stock"`
	ExpiryDate           *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	RequiresPrescription bool       `db:"requires_prescription" json:"requires_prescription"`
	Active               bool       `db:"active" json:"active"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the stock sits at or below the minimum.
func (m *Medication) LowStock() bool {
	return m.StockQuantity <= m.MinimumStock
}

// ExpiryStatus classifies the expiry date relative to now. Medications
// without an expiry date are always current.
func (m *Medication) ExpiryStatus(now time.Time) string {
	if m.ExpiryDate == nil {
		return ExpiryCurrent
	}
	switch {
	case m.ExpiryDate.Before(now):
		return ExpiryExpired
	case m.ExpiryDate.Before(now.Add(ExpiringWindow)):
		return ExpiryExpiring
	default:
		return ExpiryCurrent
	}
}
