package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	GetByBarcode(ctx context.Context, barcode string) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	Search(ctx context.Context, q string, limit, offset int) ([]*Medication, int, error)
	ListLowStock(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	// AdjustStock applies delta atomically and returns the updated row;
	// it fails with *StockError when the result would be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Medication, error)
}
