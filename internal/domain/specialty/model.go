package specialty

import (
	"time"

	"github.com/google/uuid"
)

// Specialist is an entry in the visiting-specialist directory: outside
// physicians who attend on fixed shifts rather than holding staff accounts.
type Specialist struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PhysicianName string    `db:"physician_name" json:"physician_name"`
	Specialty     string    `db:"specialty" json:"specialty"`
	ContactPhone  *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	ShiftLabel    *string   `db:"shift_label" json:"shift_label,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
