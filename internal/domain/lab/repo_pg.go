package lab

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

const orderCols = `id, code, patient_id, physician_id, tests, instructions, urgent, status,
	requested_at, completed_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Code, &o.PatientID, &o.PhysicianID, &o.Tests, &o.Instructions,
		&o.Urgent, &o.Status, &o.RequestedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &o, err
}

// Create draws the next number from the lab_order_seq sequence, so two
// concurrent orders can never share a code.
func (r *repoPG) Create(ctx context.Context, o *Order) error {
	var seq int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('lab_order_seq')`).Scan(&seq); err != nil {
		return err
	}
	o.ID = uuid.New()
	o.Code = fmt.Sprintf("LAB-%d-%d", o.RequestedAt.Year(), seq)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_order (id, code, patient_id, physician_id, tests, instructions,
			urgent, status, requested_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.Code, o.PatientID, o.PhysicianID, o.Tests, o.Instructions,
		o.Urgent, o.Status, o.RequestedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM lab_order WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Order, error) {
	return scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM lab_order WHERE code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, o *Order) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_order SET tests=$2, instructions=$3, urgent=$4, status=$5,
			completed_at=$6, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Tests, o.Instructions, o.Urgent, o.Status, o.CompletedAt)
	return err
}

func (r *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Order, int, error) {
	where := ``
	var args []interface{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_order`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM lab_order%s ORDER BY urgent DESC, requested_at LIMIT $%d OFFSET $%d`,
		orderCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_order WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM lab_order WHERE patient_id = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) AddResult(ctx context.Context, res *Result) error {
	res.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_result (id, order_id, test_name, value, reference_range, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		res.ID, res.OrderID, res.TestName, res.Value, res.ReferenceRange, res.Notes)
	return err
}

func (r *repoPG) ListResults(ctx context.Context, orderID uuid.UUID) ([]*Result, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, test_name, value, reference_range, notes, created_at
		FROM lab_result WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.OrderID, &res.TestName, &res.Value,
			&res.ReferenceRange, &res.Notes, &res.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &res)
	}
	return items, nil
}
