package inpatient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsalud/hospital/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// -- Beds --

const bedCols = `id, code, ward, state, created_at, updated_at`

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.Code, &b.Ward, &b.State, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBedNotFound
	}
	return &b, err
}

func (r *repoPG) CreateBed(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO bed (id, code, ward, state) VALUES ($1,$2,$3,$4)`,
		b.ID, b.Code, b.Ward, b.State)
	return err
}

func (r *repoPG) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id))
}

func (r *repoPG) GetBedByCode(ctx context.Context, code string) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE code = $1`, code))
}

func (r *repoPG) UpdateBed(ctx context.Context, b *Bed) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE bed SET ward=$2, state=$3, updated_at=NOW() WHERE id = $1`,
		b.ID, b.Ward, b.State)
	return err
}

func (r *repoPG) ListBeds(ctx context.Context, ward string, limit, offset int) ([]*Bed, int, error) {
	where := ``
	var args []interface{}
	if ward != "" {
		where = ` WHERE ward = $1`
		args = append(args, ward)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bed`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM bed%s ORDER BY code LIMIT $%d OFFSET $%d`,
		bedCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

// -- Admissions --

const admissionCols = `id, patient_id, bed_id, physician_id, reason, initial_diagnosis,
	status, admitted_at, discharged_at, discharge_type, discharge_summary, created_at, updated_at`

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.BedID, &a.PhysicianID, &a.Reason, &a.InitialDiagnosis,
		&a.Status, &a.AdmittedAt, &a.DischargedAt, &a.DischargeType, &a.DischargeSummary,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAdmissionNotFound
	}
	return &a, err
}

// Admit locks the bed row, verifies it is free, occupies it and inserts
// the admission, all inside one transaction.
func (r *repoPG) Admit(ctx context.Context, a *Admission) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		var code, state string
		err := r.conn(ctx).QueryRow(ctx,
			`SELECT code, state FROM bed WHERE id = $1 FOR UPDATE`, a.BedID).Scan(&code, &state)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBedNotFound
		}
		if err != nil {
			return err
		}
		if state != BedFree {
			return &BedStateError{Code: code, State: state}
		}

		if _, err := r.conn(ctx).Exec(ctx,
			`UPDATE bed SET state=$2, updated_at=NOW() WHERE id = $1`, a.BedID, BedOccupied); err != nil {
			return err
		}

		a.ID = uuid.New()
		_, err = r.conn(ctx).Exec(ctx, `
			INSERT INTO admission (id, patient_id, bed_id, physician_id, reason,
				initial_diagnosis, status, admitted_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			a.ID, a.PatientID, a.BedID, a.PhysicianID, a.Reason,
			a.InitialDiagnosis, a.Status, a.AdmittedAt)
		return err
	})
}

// Discharge closes the stay and frees its bed in one transaction.
func (r *repoPG) Discharge(ctx context.Context, a *Admission) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		if _, err := r.conn(ctx).Exec(ctx, `
			UPDATE admission SET status=$2, discharged_at=$3, discharge_type=$4,
				discharge_summary=$5, updated_at=NOW()
			WHERE id = $1`,
			a.ID, a.Status, a.DischargedAt, a.DischargeType, a.DischargeSummary); err != nil {
			return err
		}
		_, err := r.conn(ctx).Exec(ctx,
			`UPDATE bed SET state=$2, updated_at=NOW() WHERE id = $1`, a.BedID, BedFree)
		return err
	})
}

func (r *repoPG) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdmission(r.conn(ctx).QueryRow(ctx, `SELECT `+admissionCols+` FROM admission WHERE id = $1`, id))
}

func (r *repoPG) ListAdmissions(ctx context.Context, activeOnly bool, limit, offset int) ([]*Admission, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE status = 'active'`
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admission`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+admissionCols+` FROM admission`+where+` ORDER BY admitted_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

// -- Progress notes --

func (r *repoPG) AddProgressNote(ctx context.Context, n *ProgressNote) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO progress_note (id, admission_id, author_id, note, temperature,
			systolic_bp, diastolic_bp, heart_rate)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		n.ID, n.AdmissionID, n.AuthorID, n.Note, n.Temperature,
		n.SystolicBP, n.DiastolicBP, n.HeartRate)
	return err
}

func (r *repoPG) ListProgressNotes(ctx context.Context, admissionID uuid.UUID) ([]*ProgressNote, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, admission_id, author_id, note, temperature, systolic_bp, diastolic_bp,
			heart_rate, created_at
		FROM progress_note WHERE admission_id = $1 ORDER BY created_at`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ProgressNote
	for rows.Next() {
		var n ProgressNote
		if err := rows.Scan(&n.ID, &n.AdmissionID, &n.AuthorID, &n.Note, &n.Temperature,
			&n.SystolicBP, &n.DiastolicBP, &n.HeartRate, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &n)
	}
	return items, nil
}
