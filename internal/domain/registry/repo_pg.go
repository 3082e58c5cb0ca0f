package registry

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

// =========== Citizen Repository ===========

type citizenRepoPG struct{ pool *pgxpool.Pool }

func NewCitizenRepoPG(pool *pgxpool.Pool) CitizenRepository { return &citizenRepoPG{pool: pool} }

func (r *citizenRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const citizenCols = `id, name, cpf, cns, birth_date, gender, phone, email, address,
	blood_type, allergies, unit_id, family_group, created_at, updated_at`

func (r *citizenRepoPG) scanCitizen(row pgx.Row) (*Citizen, error) {
	var c Citizen
	err := row.Scan(&c.ID, &c.Name, &c.CPF, &c.CNS, &c.BirthDate, &c.Gender, &c.Phone,
		&c.Email, &c.Address, &c.BloodType, &c.Allergies, &c.UnitID, &c.FamilyGroup,
		&c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *citizenRepoPG) Create(ctx context.Context, c *Citizen) error {
	c.ID = uuid.New()
	if c.Allergies == nil {
		c.Allergies = []string{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO citizens (id, name, cpf, cns, birth_date, gender, phone, email,
			address, blood_type, allergies, unit_id, family_group)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.Name, c.CPF, c.CNS, c.BirthDate, c.Gender, c.Phone, c.Email,
		c.Address, c.BloodType, c.Allergies, c.UnitID, c.FamilyGroup)
	return err
}

func (r *citizenRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Citizen, error) {
	return r.scanCitizen(r.conn(ctx).QueryRow(ctx, `SELECT `+citizenCols+` FROM citizens WHERE id = $1`, id))
}

// Update never touches cpf or cns; national identifiers are immutable once
// registered.
func (r *citizenRepoPG) Update(ctx context.Context, c *Citizen) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE citizens SET name=$2, birth_date=$3, gender=$4, phone=$5, email=$6,
			address=$7, blood_type=$8, allergies=$9, unit_id=$10, family_group=$11,
			updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.BirthDate, c.Gender, c.Phone, c.Email,
		c.Address, c.BloodType, c.Allergies, c.UnitID, c.FamilyGroup)
	return err
}

func (r *citizenRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*Citizen, int, error) {
	query := `SELECT ` + citizenCols + ` FROM citizens WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM citizens WHERE 1=1`
	var args []interface{}
	idx := 1

	if search != "" {
		cond := fmt.Sprintf(` AND (name ILIKE $%d OR cpf ILIKE $%d OR cns ILIKE $%d)`, idx, idx, idx)
		query += cond
		countQuery += cond
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Citizen
	for rows.Next() {
		c, err := r.scanCitizen(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *citizenRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM citizens WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *citizenRepoPG) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM citizens`).Scan(&total)
	return total, err
}

// =========== Professional Repository ===========

type professionalRepoPG struct{ pool *pgxpool.Pool }

func NewProfessionalRepoPG(pool *pgxpool.Pool) ProfessionalRepository {
	return &professionalRepoPG{pool: pool}
}

func (r *professionalRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const professionalCols = `id, name, specialty, cns, crm, unit_id, is_active, created_at`

func (r *professionalRepoPG) scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.Name, &p.Specialty, &p.CNS, &p.CRM, &p.UnitID, &p.IsActive, &p.CreatedAt)
	return &p, err
}

func (r *professionalRepoPG) Create(ctx context.Context, p *Professional) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO professionals (id, name, specialty, cns, crm, unit_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Specialty, p.CNS, p.CRM, p.UnitID, p.IsActive)
	return err
}

func (r *professionalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	return r.scanProfessional(r.conn(ctx).QueryRow(ctx, `SELECT `+professionalCols+` FROM professionals WHERE id = $1`, id))
}

func (r *professionalRepoPG) List(ctx context.Context, unitID *uuid.UUID, limit, offset int) ([]*Professional, int, error) {
	query := `SELECT ` + professionalCols + ` FROM professionals WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM professionals WHERE is_active = true`
	var args []interface{}
	idx := 1

	if unitID != nil {
		cond := fmt.Sprintf(` AND unit_id = $%d`, idx)
		query += cond
		countQuery += cond
		args = append(args, *unitID)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Professional
	for rows.Next() {
		p, err := r.scanProfessional(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== HealthUnit Repository ===========

type healthUnitRepoPG struct{ pool *pgxpool.Pool }

func NewHealthUnitRepoPG(pool *pgxpool.Pool) HealthUnitRepository {
	return &healthUnitRepoPG{pool: pool}
}

func (r *healthUnitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const healthUnitCols = `id, name, cnes, address, phone, is_active, created_at`

func (r *healthUnitRepoPG) scanUnit(row pgx.Row) (*HealthUnit, error) {
	var u HealthUnit
	err := row.Scan(&u.ID, &u.Name, &u.CNES, &u.Address, &u.Phone, &u.IsActive, &u.CreatedAt)
	return &u, err
}

func (r *healthUnitRepoPG) Create(ctx context.Context, u *HealthUnit) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_units (id, name, cnes, address, phone, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Name, u.CNES, u.Address, u.Phone, u.IsActive)
	return err
}

func (r *healthUnitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthUnit, error) {
	return r.scanUnit(r.conn(ctx).QueryRow(ctx, `SELECT `+healthUnitCols+` FROM health_units WHERE id = $1`, id))
}

func (r *healthUnitRepoPG) List(ctx context.Context, limit, offset int) ([]*HealthUnit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM health_units WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+healthUnitCols+` FROM health_units WHERE is_active = true ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*HealthUnit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}

func (r *healthUnitRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM health_units WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
