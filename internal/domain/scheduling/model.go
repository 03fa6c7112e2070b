package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses form a one-way machine: scheduled may be confirmed,
// confirmed may start, in-progress may complete. Cancellation and no-show
// are terminal exits available before care starts.
const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

// Appointment types.
const (
	TypeConsultation = "consultation"
	TypeControl      = "control"
	TypeEmergency    = "emergency"
	TypeSurgery      = "surgery"
	TypeProcedure    = "procedure"
)

const DefaultDurationMinutes = 30

type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	PhysicianID     uuid.UUID `db:"physician_id" json:"physician_id"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Reason          string    `db:"reason" json:"reason"`
	Type            string    `db:"type" json:"type"`
	Status          string    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// EndsAt returns the scheduled end of the slot.
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

var transitions = map[string][]string{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether the status machine permits moving from the
// appointment's current status to next.
func (a *Appointment) CanTransition(next string) bool {
	for _, allowed := range transitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}
