package consultation

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Shift is one of the two daily operating windows during which new
// consultations may be admitted.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// ShiftCapacity is the maximum number of consultations admitted per
// (clinic day, shift) partition.
const ShiftCapacity = 20

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Consultation maps to the consultation table. SequenceNumber is the 1-based
// position within the (clinic_day, shift) admission queue.
type Consultation struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	PhysicianID        uuid.UUID  `db:"physician_id" json:"physician_id"`
	AppointmentID      *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Shift              Shift      `db:"shift" json:"shift"`
	SequenceNumber     int        `db:"sequence_number" json:"sequence_number"`
	ClinicDay          time.Time  `db:"clinic_day" json:"clinic_day"`
	TakenAt            time.Time  `db:"taken_at" json:"taken_at"`
	Temperature        *float64   `db:"temperature" json:"temperature,omitempty"`
	SystolicBP         *int       `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP        *int       `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	HeartRate          *int       `db:"heart_rate" json:"heart_rate,omitempty"`
	OxygenSaturation   *int       `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	WeightKg           *float64   `db:"weight_kg" json:"weight_kg,omitempty"`
	HeightCm           *float64   `db:"height_cm" json:"height_cm,omitempty"`
	Reason             string     `db:"reason" json:"reason"`
	Diagnosis          *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment          *string    `db:"treatment" json:"treatment,omitempty"`
	Notes              *string    `db:"notes" json:"notes,omitempty"`
	Sector             *string    `db:"sector" json:"sector,omitempty"`
	ConsciousnessLevel *string    `db:"consciousness_level" json:"consciousness_level,omitempty"`
	Status             string     `db:"status" json:"status"`
	ClosedAt           *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// BMI returns the body-mass index rounded to 2 decimal places, or nil when
// weight or height is missing or height is not positive.
func (c *Consultation) BMI() *float64 {
	if c.WeightKg == nil || c.HeightCm == nil || *c.HeightCm <= 0 {
		return nil
	}
	meters := *c.HeightCm / 100
	bmi := math.Round(*c.WeightKg/(meters*meters)*100) / 100
	return &bmi
}

// BMIClassification returns the WHO weight category for the record's BMI,
// or nil when the BMI is undefined.
func (c *Consultation) BMIClassification() *string {
	bmi := c.BMI()
	if bmi == nil {
		return nil
	}
	var class string
	switch {
	case *bmi < 18.5:
		class = "underweight"
	case *bmi < 25:
		class = "normal"
	case *bmi < 30:
		class = "overweight"
	default:
		class = "obese"
	}
	return &class
}

// BloodPressure returns the pressure pair formatted as "120/80", or nil when
// either reading is missing.
func (c *Consultation) BloodPressure() *string {
	if c.SystolicBP == nil || c.DiastolicBP == nil {
		return nil
	}
	bp := fmt.Sprintf("%d/%d", *c.SystolicBP, *c.DiastolicBP)
	return &bp
}

// AtRisk reports whether any vital-sign alert fires for this record.
func (c *Consultation) AtRisk() bool {
	return len(EvaluateAlerts(c)) > 0
}
