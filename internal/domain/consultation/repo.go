package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Admit atomically re-counts the record's (clinic day, shift) partition,
	// enforces ShiftCapacity, assigns the next sequence number and inserts
	// the record. Two concurrent callers must never observe the same count;
	// implementations serialize per partition. Returns *CapacityError when
	// the partition is full.
	Admit(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, c *Consultation) error
	CountByDayAndShift(ctx context.Context, day time.Time, shift Shift) (int, error)
	List(ctx context.Context, limit, offset int) ([]*Consultation, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error)
}
