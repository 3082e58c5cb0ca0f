package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	// List filters by name/category substring and optional unit, name ascending.
	List(ctx context.Context, search string, unitID *uuid.UUID, limit, offset int) ([]*Medication, int, error)
}

type StockRepository interface {
	Create(ctx context.Context, s *Stock) error
	GetByID(ctx context.Context, id uuid.UUID) (*Stock, error)
	Update(ctx context.Context, s *Stock) error
	// ListByMedication returns batches soonest-expiring first.
	ListByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Stock, error)
	// LowStock returns batches below their minimum, joined to the catalog.
	LowStock(ctx context.Context, unitID *uuid.UUID) ([]*LowStockRow, error)
}

type PrescriptionFilter struct {
	CitizenID      *uuid.UUID
	ConsultationID *uuid.UUID
	Status         string
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	// List returns prescriptions newest first.
	List(ctx context.Context, f PrescriptionFilter, limit, offset int) ([]*Prescription, int, error)
}

type DispensingRepository interface {
	Create(ctx context.Context, d *Dispensing) error
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Dispensing, error)
}
