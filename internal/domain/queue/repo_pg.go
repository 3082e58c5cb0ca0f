package queue

import (
	"context"

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

type entryRepoPG struct{ pool *pgxpool.Pool }

func NewEntryRepoPG(pool *pgxpool.Pool) EntryRepository { return &entryRepoPG{pool: pool} }

func (r *entryRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, citizen_id, unit_id, ticket, priority, type, status,
	arrived_at, called_at, completed_at, professional_id, room`

func (r *entryRepoPG) scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.CitizenID, &e.UnitID, &e.Ticket, &e.Priority, &e.Type,
		&e.Status, &e.ArrivedAt, &e.CalledAt, &e.CompletedAt, &e.ProfessionalID, &e.Room)
	return &e, err
}

func (r *entryRepoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO attendance_queue (id, citizen_id, unit_id, ticket, priority,
			type, status, arrived_at, professional_id, room)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.CitizenID, e.UnitID, e.Ticket, e.Priority,
		e.Type, e.Status, e.ArrivedAt, e.ProfessionalID, e.Room)
	return err
}

func (r *entryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM attendance_queue WHERE id = $1`, id))
}

func (r *entryRepoPG) Update(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE attendance_queue SET status=$2, called_at=$3, completed_at=$4,
			professional_id=$5, room=$6
		WHERE id = $1`,
		e.ID, e.Status, e.CalledAt, e.CompletedAt, e.ProfessionalID, e.Room)
	return err
}

func (r *entryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM attendance_queue WHERE id = $1`, id)
	return err
}

// List orders the queue for service: priority tier first (emergency, urgent,
// normal), earliest arrival first within a tier.
func (r *entryRepoPG) List(ctx context.Context, unitID uuid.UUID, status string) ([]*Entry, error) {
	query := `SELECT ` + entryCols + ` FROM attendance_queue WHERE unit_id = $1`
	args := []interface{}{unitID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += `
		ORDER BY CASE priority
			WHEN 'emergency' THEN 3
			WHEN 'urgent' THEN 2
			ELSE 1
		END DESC, arrived_at ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func (r *entryRepoPG) CountByUnit(ctx context.Context, unitID uuid.UUID) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM attendance_queue WHERE unit_id = $1`, unitID).Scan(&total)
	return total, err
}
