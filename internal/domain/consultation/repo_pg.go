package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const consultationCols = `id, patient_id, physician_id, appointment_id, shift, sequence_number,
	clinic_day, taken_at, temperature, systolic_bp, diastolic_bp, heart_rate,
	oxygen_saturation, weight_kg, height_cm, reason, diagnosis, treatment, notes,
	sector, consciousness_level, status, closed_at, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.PatientID, &c.PhysicianID, &c.AppointmentID, &c.Shift, &c.SequenceNumber,
		&c.ClinicDay, &c.TakenAt, &c.Temperature, &c.SystolicBP, &c.DiastolicBP, &c.HeartRate,
		&c.OxygenSaturation, &c.WeightKg, &c.HeightCm, &c.Reason, &c.Diagnosis, &c.Treatment, &c.Notes,
		&c.Sector, &c.ConsciousnessLevel, &c.Status, &c.ClosedAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

// Admit serializes concurrent admissions into the same partition with a
// transaction-scoped advisory lock taken before the count, so no two
// transactions can read the same count. The unique index on
// (clinic_day, shift, sequence_number) backstops the invariant at the
// schema level.
func (r *repoPG) Admit(ctx context.Context, c *Consultation) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		key := fmt.Sprintf("consultation:%s:%s", c.ClinicDay.Format("2006-01-02"), c.Shift)
		if err := db.AdvisoryLock(ctx, key); err != nil {
			return err
		}

		count, err := r.CountByDayAndShift(ctx, c.ClinicDay, c.Shift)
		if err != nil {
			return err
		}
		if count >= ShiftCapacity {
			return &CapacityError{Shift: c.Shift, Count: count, Capacity: ShiftCapacity}
		}

		c.ID = uuid.New()
		c.SequenceNumber = count + 1
		_, err = r.conn(ctx).Exec(ctx, `
			INSERT INTO consultation (id, patient_id, physician_id, appointment_id, shift, sequence_number,
				clinic_day, taken_at, temperature, systolic_bp, diastolic_bp, heart_rate,
				oxygen_saturation, weight_kg, height_cm, reason, diagnosis, treatment, notes,
				sector, consciousness_level, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
			c.ID, c.PatientID, c.PhysicianID, c.AppointmentID, c.Shift, c.SequenceNumber,
			c.ClinicDay, c.TakenAt, c.Temperature, c.SystolicBP, c.DiastolicBP, c.HeartRate,
			c.OxygenSaturation, c.WeightKg, c.HeightCm, c.Reason, c.Diagnosis, c.Treatment, c.Notes,
			c.Sector, c.ConsciousnessLevel, c.Status)
		return err
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+consultationCols+` FROM consultation WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET diagnosis=$2, treatment=$3, notes=$4, sector=$5,
			consciousness_level=$6, status=$7, closed_at=$8, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Diagnosis, c.Treatment, c.Notes, c.Sector,
		c.ConsciousnessLevel, c.Status, c.ClosedAt)
	return err
}

func (r *repoPG) CountByDayAndShift(ctx context.Context, day time.Time, shift Shift) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultation WHERE clinic_day = $1 AND shift = $2`,
		day, shift).Scan(&count)
	return count, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM consultation`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+consultationCols+` FROM consultation ORDER BY taken_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM consultation WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+consultationCols+` FROM consultation WHERE patient_id = $1 ORDER BY taken_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error) {
	query := `SELECT ` + consultationCols + ` FROM consultation WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM consultation WHERE 1=1`
	var args []interface{}
	idx := 1

	for _, field := range []string{"patient_id", "physician_id", "shift", "status", "clinic_day"} {
		if p, ok := params[field]; ok {
			query += fmt.Sprintf(` AND %s = $%d`, field, idx)
			countQuery += fmt.Sprintf(` AND %s = $%d`, field, idx)
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["sector"]; ok {
		query += fmt.Sprintf(` AND sector ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND sector ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY taken_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Consultation
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}
