package pharmacy

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

const medicationCols = `id, name, generic_name, form, strength, barcode, sanitary_registry,
	manufacturer, stock_quantity, unit, minimum_stock, expiry_date, requires_prescription,
	active, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.GenericName, &m.Form, &m.Strength, &m.Barcode,
		&m.SanitaryRegistry, &m.Manufacturer, &m.StockQuantity, &m.Unit, &m.MinimumStock,
		&m.ExpiryDate, &m.RequiresPrescription, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication (id, name, generic_name, form, strength, barcode,
			sanitary_registry, manufacturer, stock_quantity, unit, minimum_stock,
			expiry_date, requires_prescription, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		m.ID, m.Name, m.GenericName, m.Form, m.Strength, m.Barcode,
		m.SanitaryRegistry, m.Manufacturer, m.StockQuantity, m.Unit, m.MinimumStock,
		m.ExpiryDate, m.RequiresPrescription, m.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+medicationCols+` FROM medication WHERE id = $1`, id))
}

func (r *repoPG) GetByBarcode(ctx context.Context, barcode string) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+medicationCols+` FROM medication WHERE barcode = $1`, barcode))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name=$2, generic_name=$3, form=$4, strength=$5, barcode=$6,
			sanitary_registry=$7, manufacturer=$8, unit=$9, minimum_stock=$10, expiry_date=$11,
			requires_prescription=$12, active=$13, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.GenericName, m.Form, m.Strength, m.Barcode,
		m.SanitaryRegistry, m.Manufacturer, m.Unit, m.MinimumStock, m.ExpiryDate,
		m.RequiresPrescription, m.Active)
	return err
}

func (r *repoPG) query(ctx context.Context, where string, args []interface{}, order string, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medication`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + medicationCols + ` FROM medication` + where + order
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return r.query(ctx, ` WHERE active`, nil, ` ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *repoPG) Search(ctx context.Context, q string, limit, offset int) ([]*Medication, int, error) {
	return r.query(ctx, ` WHERE active AND (name ILIKE $1 OR generic_name ILIKE $1)`,
		[]interface{}{"%" + q + "%"}, ` ORDER BY name LIMIT $2 OFFSET $3`, limit, offset)
}

func (r *repoPG) ListLowStock(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return r.query(ctx, ` WHERE active AND stock_quantity <= minimum_stock`, nil,
		` ORDER BY stock_quantity LIMIT $1 OFFSET $2`, limit, offset)
}

// AdjustStock applies the delta under a guard clause so concurrent
// dispensations cannot drive stock below zero.
func (r *repoPG) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Medication, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE medication SET stock_quantity = stock_quantity + $2, updated_at=NOW()
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING `+medicationCols, id, delta)
	m, err := scanMedication(row)
	if errors.Is(err, ErrNotFound) {
		// Either the row is missing or the guard fired; tell them apart.
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &StockError{Name: current.Name, Available: current.StockQuantity, Requested: -delta}
	}
	return m, err
}
