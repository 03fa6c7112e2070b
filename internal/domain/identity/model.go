package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account. PasswordHash never leaves the API.
type User struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Username         string     `db:"username" json:"username"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	FullName         string     `db:"full_name" json:"full_name"`
	NationalID       string     `db:"national_id" json:"national_id"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	Role             string     `db:"role" json:"role"`
	Specialty        *string    `db:"specialty" json:"specialty,omitempty"`
	ProfessionalCode *string    `db:"professional_code" json:"professional_code,omitempty"`
	Active           bool       `db:"active" json:"active"`
	LastLogin        *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Patient is a person receiving care.
type Patient struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	NationalID            string     `db:"national_id" json:"national_id"`
	FirstName             string     `db:"first_name" json:"first_name"`
	LastName              string     `db:"last_name" json:"last_name"`
	BirthDate             time.Time  `db:"birth_date" json:"birth_date"`
	Sex                   string     `db:"sex" json:"sex"`
	Phone                 *string    `db:"phone" json:"phone,omitempty"`
	Email                 *string    `db:"email" json:"email,omitempty"`
	Address               *string    `db:"address" json:"address,omitempty"`
	BloodType             *string    `db:"blood_type" json:"blood_type,omitempty"`
	Allergies             *string    `db:"allergies" json:"allergies,omitempty"`
	ChronicConditions     *string    `db:"chronic_conditions" json:"chronic_conditions,omitempty"`
	Insurance             *string    `db:"insurance" json:"insurance,omitempty"`
	EmergencyContactName  *string    `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string    `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	AssignedPhysicianID   *uuid.UUID `db:"assigned_physician_id" json:"assigned_physician_id,omitempty"`
	Active                bool       `db:"active" json:"active"`
	LastConsultationAt    *time.Time `db:"last_consultation_at" json:"last_consultation_at,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins the patient's given and family names.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age returns full years elapsed since the birth date.
func (p *Patient) Age() int {
	return p.AgeAt(time.Now())
}

func (p *Patient) AgeAt(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
