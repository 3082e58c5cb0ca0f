package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atbasica/ubs-server/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `id, citizen_id, professional_id, unit_id, appointment_date,
	type, status, notes, created_at, updated_at`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.CitizenID, &a.ProfessionalID, &a.UnitID, &a.AppointmentDate,
		&a.Type, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, citizen_id, professional_id, unit_id,
			appointment_date, type, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.CitizenID, a.ProfessionalID, a.UnitID,
		a.AppointmentDate, a.Type, a.Status, a.Notes)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET professional_id=$2, appointment_date=$3, type=$4,
			status=$5, notes=$6, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ProfessionalID, a.AppointmentDate, a.Type, a.Status, a.Notes)
	return err
}

func (r *appointmentRepoPG) List(ctx context.Context, f Filter, limit int) ([]*Appointment, error) {
	query := `SELECT ` + appointmentCols + ` FROM appointments WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.CitizenID != nil {
		query += fmt.Sprintf(` AND citizen_id = $%d`, idx)
		args = append(args, *f.CitizenID)
		idx++
	}
	if f.ProfessionalID != nil {
		query += fmt.Sprintf(` AND professional_id = $%d`, idx)
		args = append(args, *f.ProfessionalID)
		idx++
	}
	if f.UnitID != nil {
		query += fmt.Sprintf(` AND unit_id = $%d`, idx)
		args = append(args, *f.UnitID)
		idx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Day != nil {
		// The service normalizes Day to local midnight.
		dayStart := *f.Day
		dayEnd := dayStart.AddDate(0, 0, 1)
		query += fmt.Sprintf(` AND appointment_date >= $%d AND appointment_date < $%d`, idx, idx+1)
		args = append(args, dayStart, dayEnd)
		idx += 2
	}

	query += fmt.Sprintf(` ORDER BY appointment_date ASC LIMIT $%d`, idx)
	args = append(args, limit)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
