package lab

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

func (s *Service) CreateOrder(ctx context.Context, o *Order) error {
	o.Status = StatusPending
	if o.RequestedAt.IsZero() {
		o.RequestedAt = s.now()
	}
	return s.repo.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Order, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Order, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Start moves a pending order into processing.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, &StatusError{From: o.Status, To: StatusInProgress}
	}
	o.Status = StatusInProgress
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Complete records the results and closes the order. At least one result
// must accompany completion.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, results []*Result) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if o.Status != StatusInProgress {
		return nil, &StatusError{From: o.Status, To: StatusCompleted}
	}

	for _, res := range results {
		res.OrderID = o.ID
		if err := s.repo.AddResult(ctx, res); err != nil {
			return nil, err
		}
	}

	now := s.now()
	o.Status = StatusCompleted
	o.CompletedAt = &now
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Results(ctx context.Context, orderID uuid.UUID) ([]*Result, error) {
	return s.repo.ListResults(ctx, orderID)
}
