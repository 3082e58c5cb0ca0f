package clinical

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

// =========== Consultation Repository ===========

type consultationRepoPG struct{ pool *pgxpool.Pool }

func NewConsultationRepoPG(pool *pgxpool.Pool) ConsultationRepository {
	return &consultationRepoPG{pool: pool}
}

func (r *consultationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const consultationCols = `id, citizen_id, professional_id, unit_id, appointment_id,
	consultation_date, type, chief_complaint, anamnesis, physical_exam, diagnosis,
	cid10, treatment, notes, created_at, updated_at`

func (r *consultationRepoPG) scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.CitizenID, &c.ProfessionalID, &c.UnitID, &c.AppointmentID,
		&c.ConsultationDate, &c.Type, &c.ChiefComplaint, &c.Anamnesis, &c.PhysicalExam,
		&c.Diagnosis, &c.CID10, &c.Treatment, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *consultationRepoPG) Create(ctx context.Context, c *Consultation) error {
	c.ID = uuid.New()
	if c.CID10 == nil {
		c.CID10 = []string{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultations (id, citizen_id, professional_id, unit_id,
			appointment_id, consultation_date, type, chief_complaint, anamnesis,
			physical_exam, diagnosis, cid10, treatment, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.CitizenID, c.ProfessionalID, c.UnitID, c.AppointmentID,
		c.ConsultationDate, c.Type, c.ChiefComplaint, c.Anamnesis,
		c.PhysicalExam, c.Diagnosis, c.CID10, c.Treatment, c.Notes)
	return err
}

func (r *consultationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return r.scanConsultation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationCols+` FROM consultations WHERE id = $1`, id))
}

func (r *consultationRepoPG) ListByCitizen(ctx context.Context, citizenID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultations WHERE citizen_id = $1`, citizenID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+consultationCols+` FROM consultations
		WHERE citizen_id = $1
		ORDER BY consultation_date DESC
		LIMIT $2 OFFSET $3`, citizenID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Consultation
	for rows.Next() {
		c, err := r.scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// =========== Exam Repository ===========

type examRepoPG struct{ pool *pgxpool.Pool }

func NewExamRepoPG(pool *pgxpool.Pool) ExamRepository { return &examRepoPG{pool: pool} }

func (r *examRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const examCols = `id, consultation_id, citizen_id, professional_id, type,
	request_date, completion_date, result, status, notes, created_at`

func (r *examRepoPG) scanExam(row pgx.Row) (*Exam, error) {
	var e Exam
	err := row.Scan(&e.ID, &e.ConsultationID, &e.CitizenID, &e.ProfessionalID, &e.Type,
		&e.RequestDate, &e.CompletionDate, &e.Result, &e.Status, &e.Notes, &e.CreatedAt)
	return &e, err
}

func (r *examRepoPG) Create(ctx context.Context, e *Exam) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO exams (id, consultation_id, citizen_id, professional_id, type,
			request_date, completion_date, result, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.ConsultationID, e.CitizenID, e.ProfessionalID, e.Type,
		e.RequestDate, e.CompletionDate, e.Result, e.Status, e.Notes)
	return err
}

func (r *examRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return r.scanExam(r.conn(ctx).QueryRow(ctx, `SELECT `+examCols+` FROM exams WHERE id = $1`, id))
}

func (r *examRepoPG) Update(ctx context.Context, e *Exam) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE exams SET completion_date=$2, result=$3, status=$4, notes=$5
		WHERE id = $1`,
		e.ID, e.CompletionDate, e.Result, e.Status, e.Notes)
	return err
}

func (r *examRepoPG) ListByCitizen(ctx context.Context, citizenID uuid.UUID, limit, offset int) ([]*Exam, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM exams WHERE citizen_id = $1`, citizenID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+examCols+` FROM exams
		WHERE citizen_id = $1
		ORDER BY request_date DESC
		LIMIT $2 OFFSET $3`, citizenID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Exam
	for rows.Next() {
		e, err := r.scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
