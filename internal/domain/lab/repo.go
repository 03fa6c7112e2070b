package lab

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create assigns the order code from the yearly sequence and inserts.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	List(ctx context.Context, status string, limit, offset int) ([]*Order, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Order, int, error)

	AddResult(ctx context.Context, r *Result) error
	ListResults(ctx context.Context, orderID uuid.UUID) ([]*Result, error)
}
