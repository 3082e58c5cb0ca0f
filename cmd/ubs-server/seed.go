package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// runSeed inserts a demo health unit with professionals, citizens, and a
// stocked medication catalog. Unique keys use ON CONFLICT DO NOTHING so the
// command can be re-run against a seeded database.
func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	unitID := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO health_units (id, name, cnes, address, phone, is_active)
		VALUES ($1, 'UBS Central', '7654321', 'Rua das Flores, 100 - Centro', '(11) 3333-0000', true)
		ON CONFLICT (cnes) DO NOTHING`, unitID)
	if err != nil {
		return fmt.Errorf("seed health unit: %w", err)
	}

	// If the unit already existed, reuse its id for the references below.
	if err := pool.QueryRow(ctx,
		`SELECT id FROM health_units WHERE cnes = '7654321'`).Scan(&unitID); err != nil {
		return fmt.Errorf("resolve seed unit: %w", err)
	}

	professionals := []struct {
		name      string
		specialty string
		cns       string
		crm       string
	}{
		{"Dra. Ana Beatriz Costa", "Clínica Geral", "980016280000001", "CRM/SP 123456"},
		{"Dr. Carlos Eduardo Lima", "Pediatria", "980016280000002", "CRM/SP 234567"},
		{"Enf. Juliana Martins", "Enfermagem", "980016280000003", ""},
	}
	for _, p := range professionals {
		var crm *string
		if p.crm != "" {
			crm = &p.crm
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO professionals (id, name, specialty, cns, crm, unit_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, true)
			ON CONFLICT (cns) DO NOTHING`,
			uuid.New(), p.name, p.specialty, p.cns, crm, unitID)
		if err != nil {
			return fmt.Errorf("seed professional %s: %w", p.name, err)
		}
	}

	citizens := []struct {
		name   string
		cpf    string
		cns    string
		birth  time.Time
		gender string
	}{
		{"Maria Aparecida Silva", "111.222.333-44", "700000000000001", time.Date(1958, 3, 12, 0, 0, 0, 0, time.UTC), "F"},
		{"João Pedro Santos", "222.333.444-55", "700000000000002", time.Date(1990, 7, 25, 0, 0, 0, 0, time.UTC), "M"},
		{"Helena Oliveira", "333.444.555-66", "700000000000003", time.Date(2015, 11, 2, 0, 0, 0, 0, time.UTC), "F"},
	}
	for _, c := range citizens {
		_, err := pool.Exec(ctx, `
			INSERT INTO citizens (id, name, cpf, cns, birth_date, gender, unit_id, allergies)
			VALUES ($1, $2, $3, $4, $5, $6, $7, '{}')
			ON CONFLICT (cpf) DO NOTHING`,
			uuid.New(), c.name, c.cpf, c.cns, c.birth, c.gender, unitID)
		if err != nil {
			return fmt.Errorf("seed citizen %s: %w", c.name, err)
		}
	}

	medications := []struct {
		name     string
		category string
		strength string
		quantity int
	}{
		{"Dipirona 500mg", "analgésico", "500mg", 800},
		{"Losartana 50mg", "anti-hipertensivo", "50mg", 600},
		{"Amoxicilina 500mg", "antibiótico", "500mg", 40},
	}
	for _, m := range medications {
		medID := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO medications (id, name, category, strength, unit_id)
			VALUES ($1, $2, $3, $4, $5)`,
			medID, m.name, m.category, m.strength, unitID)
		if err != nil {
			return fmt.Errorf("seed medication %s: %w", m.name, err)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO medication_stock (id, medication_id, batch, quantity, min_stock,
				unit, expiration_date)
			VALUES ($1, $2, $3, $4, 100, 'comprimido', $5)`,
			uuid.New(), medID, "L2025-01", m.quantity,
			time.Now().AddDate(1, 0, 0))
		if err != nil {
			return fmt.Errorf("seed stock for %s: %w", m.name, err)
		}
	}

	fmt.Println("Seed data inserted.")
	return nil
}
