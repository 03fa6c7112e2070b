package lab

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Order is a laboratory work order. Code is generated server-side as
// LAB-<year>-<n> from a database sequence so concurrent orders can never
// collide.
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Code         string     `db:"code" json:"code"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	PhysicianID  uuid.UUID  `db:"physician_id" json:"physician_id"`
	Tests        string     `db:"tests" json:"tests"`
	Instructions *string    `db:"instructions" json:"instructions,omitempty"`
	Urgent       bool       `db:"urgent" json:"urgent"`
	Status       string     `db:"status" json:"status"`
	RequestedAt  time.Time  `db:"requested_at" json:"requested_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Result is one measured value belonging to an order.
type Result struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrderID        uuid.UUID `db:"order_id" json:"order_id"`
	TestName       string    `db:"test_name" json:"test_name"`
	Value          string    `db:"value" json:"value"`
	ReferenceRange *string   `db:"reference_range" json:"reference_range,omitempty"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
