package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service wraps admission sequencing, clinical validation and alert
// evaluation around the repository. The clock is injected so shift
// boundaries can be exercised deterministically in tests.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Admit registers a new consultation. The flow is strictly ordered:
// required fields, shift resolution from the measurement instant,
// clinical range validation, then the atomic count-and-insert. A record
// that fails validation never reaches the repository, so it cannot
// consume a sequence slot. On success the returned alerts reflect the
// admitted vitals; they are derived, not stored.
func (s *Service) Admit(ctx context.Context, c *Consultation) ([]Alert, error) {
	if c.PatientID == uuid.Nil {
		return nil, &InputError{Field: "patient_id"}
	}
	if c.PhysicianID == uuid.Nil {
		return nil, &InputError{Field: "physician_id"}
	}
	if c.Reason == "" {
		return nil, &InputError{Field: "reason"}
	}

	if c.TakenAt.IsZero() {
		c.TakenAt = s.now()
	}
	shift, err := ResolveShift(c.TakenAt)
	if err != nil {
		return nil, err
	}
	c.Shift = shift
	c.ClinicDay = ClinicDay(c.TakenAt)
	c.Status = StatusOpen

	if err := ValidateClinicalRanges(c); err != nil {
		return nil, err
	}

	if err := s.repo.Admit(ctx, c); err != nil {
		return nil, err
	}

	alerts := EvaluateAlerts(c)
	log.Info().
		Str("consultation_id", c.ID.String()).
		Str("shift", string(c.Shift)).
		Int("sequence_number", c.SequenceNumber).
		Int("alerts", len(alerts)).
		Msg("Consultation admitted")
	return alerts, nil
}

// Availability reports how much room remains in one shift partition.
type Availability struct {
	ClinicDay time.Time `json:"clinic_day"`
	Shift     Shift     `json:"shift"`
	Count     int       `json:"count"`
	Capacity  int       `json:"capacity"`
	Available bool      `json:"available"`
}

// CheckAvailability reports the occupancy of the shift containing the
// given instant, or of an explicitly named shift on that instant's clinic
// day. With an empty shift and an instant outside both windows it returns
// ErrOutsideHours.
func (s *Service) CheckAvailability(ctx context.Context, at time.Time, shift Shift) (*Availability, error) {
	if at.IsZero() {
		at = s.now()
	}
	if shift == "" {
		resolved, err := ResolveShift(at)
		if err != nil {
			return nil, err
		}
		shift = resolved
	}

	day := ClinicDay(at)
	count, err := s.repo.CountByDayAndShift(ctx, day, shift)
	if err != nil {
		return nil, err
	}
	return &Availability{
		ClinicDay: day,
		Shift:     shift,
		Count:     count,
		Capacity:  ShiftCapacity,
		Available: count < ShiftCapacity,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

// UpdateInput carries the free-text clinical fields a physician may amend
// while a consultation is open. Vitals, shift and sequence are immutable
// after admission.
type UpdateInput struct {
	Diagnosis          *string `json:"diagnosis"`
	Treatment          *string `json:"treatment"`
	Notes              *string `json:"notes"`
	Sector             *string `json:"sector"`
	ConsciousnessLevel *string `json:"consciousness_level"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusClosed {
		return nil, ErrAlreadyClosed
	}

	if in.Diagnosis != nil {
		c.Diagnosis = in.Diagnosis
	}
	if in.Treatment != nil {
		c.Treatment = in.Treatment
	}
	if in.Notes != nil {
		c.Notes = in.Notes
	}
	if in.Sector != nil {
		c.Sector = in.Sector
	}
	if in.ConsciousnessLevel != nil {
		c.ConsciousnessLevel = in.ConsciousnessLevel
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Close marks a consultation finished. Closing is one-way; a second close
// returns ErrAlreadyClosed.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusClosed {
		return nil, ErrAlreadyClosed
	}

	now := s.now()
	c.Status = StatusClosed
	c.ClosedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
