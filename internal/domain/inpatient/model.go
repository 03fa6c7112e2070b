package inpatient

import (
	"time"

	"github.com/google/uuid"
)

// Bed states.
const (
	BedFree        = "free"
	BedOccupied    = "occupied"
	BedMaintenance = "maintenance"
)

// Admission statuses.
const (
	StatusActive     = "active"
	StatusDischarged = "discharged"
)

// Discharge types.
const (
	DischargeMedical   = "medical"
	DischargeVoluntary = "voluntary"
	DischargeReferral  = "referral"
	DischargeDeath     = "death"
)

type Bed struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Ward      string    `db:"ward" json:"ward"`
	State     string    `db:"state" json:"state"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Admission struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	BedID            uuid.UUID  `db:"bed_id" json:"bed_id"`
	PhysicianID      uuid.UUID  `db:"physician_id" json:"physician_id"`
	Reason           string     `db:"reason" json:"reason"`
	InitialDiagnosis *string    `db:"initial_diagnosis" json:"initial_diagnosis,omitempty"`
	Status           string     `db:"status" json:"status"`
	AdmittedAt       time.Time  `db:"admitted_at" json:"admitted_at"`
	DischargedAt     *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	DischargeType    *string    `db:"discharge_type" json:"discharge_type,omitempty"`
	DischargeSummary *string    `db:"discharge_summary" json:"discharge_summary,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// DaysAdmitted counts whole days between admission and discharge, or
// against now for active stays. Same-day stays count as 1.
func (a *Admission) DaysAdmitted(now time.Time) int {
	end := now
	if a.DischargedAt != nil {
		end = *a.DischargedAt
	}
	days := int(end.Sub(a.AdmittedAt).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// ProgressNote is a daily evolution entry on an active admission.
type ProgressNote struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AdmissionID uuid.UUID `db:"admission_id" json:"admission_id"`
	AuthorID    uuid.UUID `db:"author_id" json:"author_id"`
	Note        string    `db:"note" json:"note"`
	Temperature *float64  `db:"temperature" json:"temperature,omitempty"`
	SystolicBP  *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	HeartRate   *int      `db:"heart_rate" json:"heart_rate,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
