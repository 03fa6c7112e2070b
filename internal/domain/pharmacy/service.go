package pharmacy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if m.Barcode != nil {
		if _, err := s.repo.GetByBarcode(ctx, *m.Barcode); err == nil {
			return ErrDuplicateBarcode
		}
	}
	m.Active = true
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Medication, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	return s.repo.Update(ctx, m)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, q string, limit, offset int) ([]*Medication, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}

func (s *Service) ListLowStock(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.repo.ListLowStock(ctx, limit, offset)
}

// AdjustStock applies a signed delta: positive restocks, negative dispenses.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Medication, error) {
	return s.repo.AdjustStock(ctx, id, delta)
}

// Discontinue hides the medication from dispensing without deleting its
// movement history.
func (s *Service) Discontinue(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	m.Active = false
	return s.repo.Update(ctx, m)
}
