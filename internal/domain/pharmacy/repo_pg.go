package pharmacy

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

func connFor(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

const medicationCols = `id, name, category, active_ingredient, dosage_form,
	strength, manufacturer, unit_id, created_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.ActiveIngredient, &m.DosageForm,
		&m.Strength, &m.Manufacturer, &m.UnitID, &m.CreatedAt)
	return &m, err
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO medications (id, name, category, active_ingredient, dosage_form,
			strength, manufacturer, unit_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.Name, m.Category, m.ActiveIngredient, m.DosageForm,
		m.Strength, m.Manufacturer, m.UnitID)
	return err
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+medicationCols+` FROM medications WHERE id = $1`, id))
}

func (r *medicationRepoPG) List(ctx context.Context, search string, unitID *uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	query := `SELECT ` + medicationCols + ` FROM medications WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM medications WHERE 1=1`
	var args []interface{}
	idx := 1

	if search != "" {
		cond := fmt.Sprintf(` AND (name ILIKE $%d OR category ILIKE $%d)`, idx, idx)
		query += cond
		countQuery += cond
		args = append(args, "%"+search+"%")
		idx++
	}
	if unitID != nil {
		cond := fmt.Sprintf(` AND unit_id = $%d`, idx)
		query += cond
		countQuery += cond
		args = append(args, *unitID)
		idx++
	}

	var total int
	if err := connFor(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := connFor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// =========== Stock Repository ===========

type stockRepoPG struct{ pool *pgxpool.Pool }

func NewStockRepoPG(pool *pgxpool.Pool) StockRepository { return &stockRepoPG{pool: pool} }

const stockCols = `id, medication_id, batch, quantity, min_stock, unit,
	expiration_date, entry_date, updated_at`

func scanStock(row pgx.Row) (*Stock, error) {
	var s Stock
	err := row.Scan(&s.ID, &s.MedicationID, &s.Batch, &s.Quantity, &s.MinStock,
		&s.Unit, &s.ExpirationDate, &s.EntryDate, &s.UpdatedAt)
	return &s, err
}

func (r *stockRepoPG) Create(ctx context.Context, s *Stock) error {
	s.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO medication_stock (id, medication_id, batch, quantity, min_stock,
			unit, expiration_date, entry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.MedicationID, s.Batch, s.Quantity, s.MinStock,
		s.Unit, s.ExpirationDate, s.EntryDate)
	return err
}

func (r *stockRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Stock, error) {
	return scanStock(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+stockCols+` FROM medication_stock WHERE id = $1`, id))
}

func (r *stockRepoPG) Update(ctx context.Context, s *Stock) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE medication_stock SET quantity=$2, min_stock=$3, expiration_date=$4,
			updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Quantity, s.MinStock, s.ExpirationDate)
	return err
}

func (r *stockRepoPG) ListByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Stock, error) {
	rows, err := connFor(ctx, r.pool).Query(ctx, `
		SELECT `+stockCols+` FROM medication_stock
		WHERE medication_id = $1
		ORDER BY expiration_date ASC`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *stockRepoPG) LowStock(ctx context.Context, unitID *uuid.UUID) ([]*LowStockRow, error) {
	query := `
		SELECT s.id, m.id, m.name, s.batch, s.quantity, s.min_stock, s.expiration_date
		FROM medication_stock s
		JOIN medications m ON m.id = s.medication_id
		WHERE s.quantity < s.min_stock`
	var args []interface{}
	if unitID != nil {
		query += ` AND m.unit_id = $1`
		args = append(args, *unitID)
	}
	query += ` ORDER BY s.quantity ASC`

	rows, err := connFor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*LowStockRow
	for rows.Next() {
		var row LowStockRow
		if err := rows.Scan(&row.StockID, &row.MedicationID, &row.MedicationName,
			&row.Batch, &row.Quantity, &row.MinStock, &row.ExpirationDate); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// =========== Prescription Repository ===========

type prescriptionRepoPG struct{ pool *pgxpool.Pool }

func NewPrescriptionRepoPG(pool *pgxpool.Pool) PrescriptionRepository {
	return &prescriptionRepoPG{pool: pool}
}

const prescriptionCols = `id, consultation_id, citizen_id, professional_id,
	medication, dosage, frequency, duration, quantity, instructions, status, created_at`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.ConsultationID, &p.CitizenID, &p.ProfessionalID,
		&p.Medication, &p.Dosage, &p.Frequency, &p.Duration, &p.Quantity,
		&p.Instructions, &p.Status, &p.CreatedAt)
	return &p, err
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO prescriptions (id, consultation_id, citizen_id, professional_id,
			medication, dosage, frequency, duration, quantity, instructions, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.ConsultationID, p.CitizenID, p.ProfessionalID,
		p.Medication, p.Dosage, p.Frequency, p.Duration, p.Quantity,
		p.Instructions, p.Status)
	return err
}

func (r *prescriptionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scanPrescription(connFor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id))
}

func (r *prescriptionRepoPG) Update(ctx context.Context, p *Prescription) error {
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		UPDATE prescriptions SET dosage=$2, frequency=$3, duration=$4, quantity=$5,
			instructions=$6, status=$7
		WHERE id = $1`,
		p.ID, p.Dosage, p.Frequency, p.Duration, p.Quantity, p.Instructions, p.Status)
	return err
}

func (r *prescriptionRepoPG) List(ctx context.Context, f PrescriptionFilter, limit, offset int) ([]*Prescription, int, error) {
	query := `SELECT ` + prescriptionCols + ` FROM prescriptions WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM prescriptions WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.CitizenID != nil {
		cond := fmt.Sprintf(` AND citizen_id = $%d`, idx)
		query += cond
		countQuery += cond
		args = append(args, *f.CitizenID)
		idx++
	}
	if f.ConsultationID != nil {
		cond := fmt.Sprintf(` AND consultation_id = $%d`, idx)
		query += cond
		countQuery += cond
		args = append(args, *f.ConsultationID)
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
	if err := connFor(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := connFor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// =========== Dispensing Repository ===========

type dispensingRepoPG struct{ pool *pgxpool.Pool }

func NewDispensingRepoPG(pool *pgxpool.Pool) DispensingRepository {
	return &dispensingRepoPG{pool: pool}
}

func (r *dispensingRepoPG) Create(ctx context.Context, d *Dispensing) error {
	d.ID = uuid.New()
	_, err := connFor(ctx, r.pool).Exec(ctx, `
		INSERT INTO medication_dispensing (id, prescription_id, stock_id, citizen_id,
			quantity, dispensed_by, dispensed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.PrescriptionID, d.StockID, d.CitizenID, d.Quantity, d.DispensedBy, d.DispensedAt)
	return err
}

func (r *dispensingRepoPG) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Dispensing, error) {
	rows, err := connFor(ctx, r.pool).Query(ctx, `
		SELECT id, prescription_id, stock_id, citizen_id, quantity, dispensed_by, dispensed_at
		FROM medication_dispensing
		WHERE prescription_id = $1
		ORDER BY dispensed_at DESC`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Dispensing
	for rows.Next() {
		var d Dispensing
		if err := rows.Scan(&d.ID, &d.PrescriptionID, &d.StockID, &d.CitizenID,
			&d.Quantity, &d.DispensedBy, &d.DispensedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
