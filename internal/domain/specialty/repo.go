package specialty

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("specialist not found")

type Repository interface {
	Create(ctx context.Context, s *Specialist) error
	GetByID(ctx context.Context, id uuid.UUID) (*Specialist, error)
	Update(ctx context.Context, s *Specialist) error
	List(ctx context.Context, specialty string, limit, offset int) ([]*Specialist, int, error)
}
