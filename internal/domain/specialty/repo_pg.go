package specialty

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

const specialistCols = `id, physician_name, specialty, contact_phone, shift_label, active,
	created_at, updated_at`

func scanSpecialist(row pgx.Row) (*Specialist, error) {
	var s Specialist
	err := row.Scan(&s.ID, &s.PhysicianName, &s.Specialty, &s.ContactPhone, &s.ShiftLabel,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Specialist) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO specialist (id, physician_name, specialty, contact_phone, shift_label, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.PhysicianName, s.Specialty, s.ContactPhone, s.ShiftLabel, s.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Specialist, error) {
	return scanSpecialist(r.conn(ctx).QueryRow(ctx, `SELECT `+specialistCols+` FROM specialist WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *Specialist) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE specialist SET physician_name=$2, specialty=$3, contact_phone=$4,
			shift_label=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.PhysicianName, s.Specialty, s.ContactPhone, s.ShiftLabel, s.Active)
	return err
}

func (r *repoPG) List(ctx context.Context, specialty string, limit, offset int) ([]*Specialist, int, error) {
	where := ` WHERE active`
	var args []interface{}
	if specialty != "" {
		where += ` AND specialty ILIKE $1`
		args = append(args, "%"+specialty+"%")
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM specialist`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM specialist%s ORDER BY specialty, physician_name LIMIT $%d OFFSET $%d`,
		specialistCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Specialist
	for rows.Next() {
		s, err := scanSpecialist(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}
