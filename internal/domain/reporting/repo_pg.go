package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository { return &statsRepoPG{pool: pool} }

func (r *statsRepoPG) CountAppointments(ctx context.Context, unitID *uuid.UUID, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE appointment_date >= $1 AND appointment_date < $2`
	args := []interface{}{from, to}
	if unitID != nil {
		query += ` AND unit_id = $3`
		args = append(args, *unitID)
	}
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountQueueWaiting(ctx context.Context, unitID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM attendance_queue WHERE status = 'waiting'`
	var args []interface{}
	if unitID != nil {
		query += ` AND unit_id = $1`
		args = append(args, *unitID)
	}
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountLowStock(ctx context.Context, unitID *uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM medication_stock s
		JOIN medications m ON m.id = s.medication_id
		WHERE s.quantity < s.min_stock`
	var args []interface{}
	if unitID != nil {
		query += ` AND m.unit_id = $1`
		args = append(args, *unitID)
	}
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountCitizens(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM citizens`).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountNewCitizens(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM citizens WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountConsultations(ctx context.Context, unitID *uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM consultations WHERE consultation_date >= $1`
	args := []interface{}{since}
	if unitID != nil {
		query += ` AND unit_id = $2`
		args = append(args, *unitID)
	}
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountPrescriptions(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM prescriptions WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountExams(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exams WHERE request_date >= $1`, since).Scan(&n)
	return n, err
}

func (r *statsRepoPG) CountTfdRequests(ctx context.Context, unitID *uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM tfd_requests WHERE request_date >= $1`
	args := []interface{}{since}
	if unitID != nil {
		query += ` AND unit_id = $2`
		args = append(args, *unitID)
	}
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *statsRepoPG) ConsultationsByType(ctx context.Context, unitID *uuid.UUID, since time.Time) ([]TypeCount, error) {
	query := `SELECT type, COUNT(*) FROM consultations WHERE consultation_date >= $1`
	args := []interface{}{since}
	if unitID != nil {
		query += ` AND unit_id = $2`
		args = append(args, *unitID)
	}
	query += ` GROUP BY type ORDER BY COUNT(*) DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *statsRepoPG) TopDiagnoses(ctx context.Context, unitID *uuid.UUID, since time.Time, limit int) ([]DiagnosisCount, error) {
	query := `
		SELECT code, COUNT(*) FROM consultations, unnest(cid10) AS code
		WHERE consultation_date >= $1`
	args := []interface{}{since}
	if unitID != nil {
		query += ` AND unit_id = $2`
		args = append(args, *unitID)
	}
	query += fmt.Sprintf(` GROUP BY code ORDER BY COUNT(*) DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiagnosisCount
	for rows.Next() {
		var dc DiagnosisCount
		if err := rows.Scan(&dc.Code, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

func (r *statsRepoPG) MedicationUsage(ctx context.Context, since time.Time, limit int) ([]MedicationUsage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT medication, SUM(quantity) FROM prescriptions
		WHERE created_at >= $1
		GROUP BY medication
		ORDER BY SUM(quantity) DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MedicationUsage
	for rows.Next() {
		var mu MedicationUsage
		if err := rows.Scan(&mu.Medication, &mu.Quantity); err != nil {
			return nil, err
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

func (r *statsRepoPG) AgeDistribution(ctx context.Context, unitID *uuid.UUID) ([]AgeBucket, error) {
	query := `
		SELECT bucket, COUNT(*) FROM (
			SELECT CASE
				WHEN age < 13 THEN '0-12'
				WHEN age < 18 THEN '13-17'
				WHEN age < 40 THEN '18-39'
				WHEN age < 60 THEN '40-59'
				ELSE '60+'
			END AS bucket
			FROM (
				SELECT date_part('year', age(birth_date)) AS age FROM citizens`
	var args []interface{}
	if unitID != nil {
		query += ` WHERE unit_id = $1`
		args = append(args, *unitID)
	}
	query += `
			) ages
		) buckets
		GROUP BY bucket`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AgeBucket
	for rows.Next() {
		var b AgeBucket
		if err := rows.Scan(&b.Range, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
