package emergency

import (
	"context"
	"errors"

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

const caseCols = `id, patient_id, arrival_name, type, triage_level, description, temperature,
	systolic_bp, diastolic_bp, heart_rate, oxygen_saturation, glasgow_score, status,
	attended_by, arrived_at, care_started_at, resolved_at, outcome, created_at, updated_at`

func scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.PatientID, &c.ArrivalName, &c.Type, &c.TriageLevel, &c.Description,
		&c.Temperature, &c.SystolicBP, &c.DiastolicBP, &c.HeartRate, &c.OxygenSaturation,
		&c.GlasgowScore, &c.Status, &c.AttendedBy, &c.ArrivedAt, &c.CareStartedAt,
		&c.ResolvedAt, &c.Outcome, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Case) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_case (id, patient_id, arrival_name, type, triage_level, description,
			temperature, systolic_bp, diastolic_bp, heart_rate, oxygen_saturation, glasgow_score,
			status, arrived_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.PatientID, c.ArrivalName, c.Type, c.TriageLevel, c.Description,
		c.Temperature, c.SystolicBP, c.DiastolicBP, c.HeartRate, c.OxygenSaturation,
		c.GlasgowScore, c.Status, c.ArrivedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	return scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+` FROM emergency_case WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Case) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE emergency_case SET patient_id=$2, triage_level=$3, description=$4, status=$5,
			attended_by=$6, care_started_at=$7, resolved_at=$8, outcome=$9, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.PatientID, c.TriageLevel, c.Description, c.Status,
		c.AttendedBy, c.CareStartedAt, c.ResolvedAt, c.Outcome)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return r.query(ctx, ``, limit, offset)
}

func (r *repoPG) ListActive(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return r.query(ctx, ` WHERE status IN ('in_triage','in_care')`, limit, offset)
}

func (r *repoPG) query(ctx context.Context, where string, limit, offset int) ([]*Case, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM emergency_case`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+caseCols+` FROM emergency_case`+where+` ORDER BY triage_level, arrived_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}
