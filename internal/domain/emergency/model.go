package emergency

import (
	"time"

	"github.com/google/uuid"
)

// Case statuses. A case enters triage on arrival, moves to care when a
// clinician takes it, and leaves either referred or discharged.
const (
	StatusInTriage   = "in_triage"
	StatusInCare     = "in_care"
	StatusReferred   = "referred"
	StatusDischarged = "discharged"
)

// Case types.
const (
	TypeAccident    = "accident"
	TypeRespiratory = "respiratory"
	TypeCardiac     = "cardiac"
	TypeOther       = "other"
)

// TriageLevel follows the five-level scale: 1 is immediate, 5 can wait.
type TriageLevel int

var triageNames = map[TriageLevel]string{
	1: "resuscitation",
	2: "emergency",
	3: "urgency",
	4: "minor urgency",
	5: "no urgency",
}

var triageColors = map[TriageLevel]string{
	1: "red",
	2: "orange",
	3: "yellow",
	4: "green",
	5: "blue",
}

func (l TriageLevel) Valid() bool { return l >= 1 && l <= 5 }

func (l TriageLevel) Name() string { return triageNames[l] }

func (l TriageLevel) Color() string { return triageColors[l] }

// Case is an emergency arrival. PatientID is nil for unidentified patients;
// in that case ArrivalName carries whatever is known.
type Case struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	PatientID        *uuid.UUID  `db:"patient_id" json:"patient_id,omitempty"`
	ArrivalName      *string     `db:"arrival_name" json:"arrival_name,omitempty"`
	Type             string      `db:"type" json:"type"`
	TriageLevel      TriageLevel `db:"triage_level" json:"triage_level"`
	Description      string      `db:"description" json:"description"`
	Temperature      *float64    `db:"temperature" json:"temperature,omitempty"`
	SystolicBP       *int        `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP      *int        `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	HeartRate        *int        `db:"heart_rate" json:"heart_rate,omitempty"`
	OxygenSaturation *int        `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	GlasgowScore     *int        `db:"glasgow_score" json:"glasgow_score,omitempty"`
	Status           string      `db:"status" json:"status"`
	AttendedBy       *uuid.UUID  `db:"attended_by" json:"attended_by,omitempty"`
	ArrivedAt        time.Time   `db:"arrived_at" json:"arrived_at"`
	CareStartedAt    *time.Time  `db:"care_started_at" json:"care_started_at,omitempty"`
	ResolvedAt       *time.Time  `db:"resolved_at" json:"resolved_at,omitempty"`
	Outcome          *string     `db:"outcome" json:"outcome,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// WaitingMinutes returns how long the case sat in triage before care
// started, or the wait so far relative to now for cases still in triage.
func (c *Case) WaitingMinutes(now time.Time) int {
	end := now
	if c.CareStartedAt != nil {
		end = *c.CareStartedAt
	}
	d := end.Sub(c.ArrivedAt)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}
