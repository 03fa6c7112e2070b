package emergency

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var validTypes = map[string]bool{
	TypeAccident:    true,
	TypeRespiratory: true,
	TypeCardiac:     true,
	TypeOther:       true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register books an arriving case into triage.
func (s *Service) Register(ctx context.Context, c *Case) error {
	if c.Type == "" {
		c.Type = TypeOther
	}
	if !validTypes[c.Type] {
		return ErrInvalidType
	}
	if !c.TriageLevel.Valid() {
		return ErrInvalidTriage
	}
	if c.GlasgowScore != nil && (*c.GlasgowScore < 3 || *c.GlasgowScore > 15) {
		return ErrInvalidGlasgow
	}
	c.Status = StatusInTriage
	if c.ArrivedAt.IsZero() {
		c.ArrivedAt = s.now()
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return s.repo.ListActive(ctx, limit, offset)
}

// StartCare moves a triaged case into care under the given clinician.
func (s *Service) StartCare(ctx context.Context, id, attendedBy uuid.UUID) (*Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusInTriage {
		return nil, &StateError{Status: c.Status, Action: "start care for"}
	}
	now := s.now()
	c.Status = StatusInCare
	c.AttendedBy = &attendedBy
	c.CareStartedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Retriage changes the level of a case still waiting.
func (s *Service) Retriage(ctx context.Context, id uuid.UUID, level TriageLevel) (*Case, error) {
	if !level.Valid() {
		return nil, ErrInvalidTriage
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusInTriage {
		return nil, &StateError{Status: c.Status, Action: "retriage"}
	}
	c.TriageLevel = level
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve closes a case in care as referred or discharged.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, status string, outcome string) (*Case, error) {
	if status != StatusReferred && status != StatusDischarged {
		return nil, &StateError{Status: status, Action: "resolve into"}
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusInCare {
		return nil, &StateError{Status: c.Status, Action: "resolve"}
	}
	now := s.now()
	c.Status = status
	c.ResolvedAt = &now
	if outcome != "" {
		c.Outcome = &outcome
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Identify attaches a patient record to a case admitted unidentified.
func (s *Service) Identify(ctx context.Context, id, patientID uuid.UUID) (*Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.PatientID = &patientID
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
