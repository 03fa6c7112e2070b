package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var validTypes = map[string]bool{
	TypeConsultation: true,
	TypeControl:      true,
	TypeEmergency:    true,
	TypeSurgery:      true,
	TypeProcedure:    true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Schedule(ctx context.Context, a *Appointment) error {
	if a.Type == "" {
		a.Type = TypeConsultation
	}
	if !validTypes[a.Type] {
		return ErrInvalidType
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = DefaultDurationMinutes
	}
	if a.ScheduledAt.Before(s.now()) {
		return ErrPastSlot
	}
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDay(ctx, day, limit, offset)
}

func (s *Service) ListByPhysician(ctx context.Context, physicianID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPhysician(ctx, physicianID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Transition moves an appointment to the next status, enforcing the machine.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, next string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanTransition(next) {
		return nil, &TransitionError{From: a.Status, To: next}
	}
	a.Status = next
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves a not-yet-started appointment to a new slot.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, at time.Time, durationMinutes int) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return nil, &TransitionError{From: a.Status, To: StatusScheduled}
	}
	if at.Before(s.now()) {
		return nil, ErrPastSlot
	}
	a.ScheduledAt = at
	if durationMinutes > 0 {
		a.DurationMinutes = durationMinutes
	}
	a.Status = StatusScheduled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
