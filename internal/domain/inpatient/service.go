package inpatient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var validDischarges = map[string]bool{
	DischargeMedical:   true,
	DischargeVoluntary: true,
	DischargeReferral:  true,
	DischargeDeath:     true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// -- Beds --

func (s *Service) CreateBed(ctx context.Context, b *Bed) error {
	if _, err := s.repo.GetBedByCode(ctx, b.Code); err == nil {
		return ErrDuplicateBedCode
	}
	if b.State == "" {
		b.State = BedFree
	}
	return s.repo.CreateBed(ctx, b)
}

func (s *Service) ListBeds(ctx context.Context, ward string, limit, offset int) ([]*Bed, int, error) {
	return s.repo.ListBeds(ctx, ward, limit, offset)
}

// SetBedMaintenance takes a free bed out of service or returns it.
func (s *Service) SetBedMaintenance(ctx context.Context, id uuid.UUID, underMaintenance bool) (*Bed, error) {
	b, err := s.repo.GetBed(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.State == BedOccupied {
		return nil, &BedStateError{Code: b.Code, State: b.State}
	}
	if underMaintenance {
		b.State = BedMaintenance
	} else {
		b.State = BedFree
	}
	if err := s.repo.UpdateBed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// -- Admissions --

func (s *Service) Admit(ctx context.Context, a *Admission) error {
	a.Status = StatusActive
	if a.AdmittedAt.IsZero() {
		a.AdmittedAt = s.now()
	}
	return s.repo.Admit(ctx, a)
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.repo.GetAdmission(ctx, id)
}

func (s *Service) ListAdmissions(ctx context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error) {
	return s.repo.ListAdmissions(ctx, activeOnly, limit, offset)
}

func (s *Service) Discharge(ctx context.Context, id uuid.UUID, dischargeType, summary string) (*Admission, error) {
	if !validDischarges[dischargeType] {
		return nil, ErrInvalidDischarge
	}
	a, err := s.repo.GetAdmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusDischarged {
		return nil, ErrAlreadyDischarged
	}
	now := s.now()
	a.Status = StatusDischarged
	a.DischargedAt = &now
	a.DischargeType = &dischargeType
	if summary != "" {
		a.DischargeSummary = &summary
	}
	if err := s.repo.Discharge(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// -- Progress notes --

func (s *Service) AddProgressNote(ctx context.Context, n *ProgressNote) error {
	a, err := s.repo.GetAdmission(ctx, n.AdmissionID)
	if err != nil {
		return err
	}
	if a.Status == StatusDischarged {
		return ErrAlreadyDischarged
	}
	return s.repo.AddProgressNote(ctx, n)
}

func (s *Service) ListProgressNotes(ctx context.Context, admissionID uuid.UUID) ([]*ProgressNote, error) {
	return s.repo.ListProgressNotes(ctx, admissionID)
}
