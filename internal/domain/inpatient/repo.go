package inpatient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*Bed, error)
	GetBedByCode(ctx context.Context, code string) (*Bed, error)
	UpdateBed(ctx context.Context, b *Bed) error
	ListBeds(ctx context.Context, ward string, limit, offset int) ([]*Bed, int, error)

	// Admit occupies the bed and inserts the admission in one transaction;
	// a bed that is not free fails the whole unit with *BedStateError.
	Admit(ctx context.Context, a *Admission) error
	// Discharge closes the admission and frees its bed in one transaction.
	Discharge(ctx context.Context, a *Admission) error
	GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error)
	ListAdmissions(ctx context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error)

	AddProgressNote(ctx context.Context, n *ProgressNote) error
	ListProgressNotes(ctx context.Context, admissionID uuid.UUID) ([]*ProgressNote, error)
}
