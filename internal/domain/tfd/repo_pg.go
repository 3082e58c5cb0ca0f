package tfd

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

type requestRepoPG struct{ pool *pgxpool.Pool }

func NewRequestRepoPG(pool *pgxpool.Pool) RequestRepository { return &requestRepoPG{pool: pool} }

func (r *requestRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const requestCols = `id, citizen_id, professional_id, unit_id, destination, procedure,
	justification, request_date, travel_date, return_date, status, approved_by,
	approved_at, transport_type, companion, notes, created_at, updated_at`

func (r *requestRepoPG) scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.CitizenID, &req.ProfessionalID, &req.UnitID,
		&req.Destination, &req.Procedure, &req.Justification, &req.RequestDate,
		&req.TravelDate, &req.ReturnDate, &req.Status, &req.ApprovedBy,
		&req.ApprovedAt, &req.TransportType, &req.Companion, &req.Notes,
		&req.CreatedAt, &req.UpdatedAt)
	return &req, err
}

func (r *requestRepoPG) Create(ctx context.Context, req *Request) error {
	req.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO tfd_requests (id, citizen_id, professional_id, unit_id, destination,
			procedure, justification, request_date, travel_date, return_date, status,
			transport_type, companion, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		req.ID, req.CitizenID, req.ProfessionalID, req.UnitID, req.Destination,
		req.Procedure, req.Justification, req.RequestDate, req.TravelDate,
		req.ReturnDate, req.Status, req.TransportType, req.Companion, req.Notes)
	return err
}

func (r *requestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return r.scanRequest(r.conn(ctx).QueryRow(ctx,
		`SELECT `+requestCols+` FROM tfd_requests WHERE id = $1`, id))
}

func (r *requestRepoPG) Update(ctx context.Context, req *Request) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE tfd_requests SET status=$2, approved_by=$3, approved_at=$4,
			travel_date=$5, return_date=$6, transport_type=$7, companion=$8,
			notes=$9, updated_at=NOW()
		WHERE id = $1`,
		req.ID, req.Status, req.ApprovedBy, req.ApprovedAt,
		req.TravelDate, req.ReturnDate, req.TransportType, req.Companion, req.Notes)
	return err
}

func (r *requestRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	query := `SELECT ` + requestCols + ` FROM tfd_requests WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM tfd_requests WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.CitizenID != nil {
		cond := fmt.Sprintf(` AND citizen_id = $%d`, idx)
		query += cond
		countQuery += cond
		args = append(args, *f.CitizenID)
		idx++
	}
	if f.Status != "" {
		cond := fmt.Sprintf(` AND status = $%d`, idx)
		query += cond
		countQuery += cond
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY request_date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Request
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}
