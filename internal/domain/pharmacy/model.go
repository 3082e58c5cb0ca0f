// Package pharmacy manages the unit's medication catalog, batch-level stock,
// prescriptions, and the dispensing act that ties the three together.
package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

type Medication struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Category         string    `db:"category" json:"category"`
	ActiveIngredient *string   `db:"active_ingredient" json:"active_ingredient,omitempty"`
	DosageForm       *string   `db:"dosage_form" json:"dosage_form,omitempty"`
	Strength         *string   `db:"strength" json:"strength,omitempty"`
	Manufacturer     *string   `db:"manufacturer" json:"manufacturer,omitempty"`
	UnitID           uuid.UUID `db:"unit_id" json:"unit_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

type Stock struct {
	ID             uuid.UUID `db:"id" json:"id"`
	MedicationID   uuid.UUID `db:"medication_id" json:"medication_id"`
	Batch          string    `db:"batch" json:"batch"`
	Quantity       int       `db:"quantity" json:"quantity"`
	MinStock       int       `db:"min_stock" json:"min_stock"`
	Unit           string    `db:"unit" json:"unit"`
	ExpirationDate time.Time `db:"expiration_date" json:"expiration_date"`
	EntryDate      time.Time `db:"entry_date" json:"entry_date"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StockUpdate carries the adjustable fields of a stock batch.
type StockUpdate struct {
	Quantity       *int       `json:"quantity,omitempty"`
	MinStock       *int       `json:"min_stock,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// LowStockRow joins a depleted batch with its medication for the
// replenishment report.
type LowStockRow struct {
	StockID        uuid.UUID `db:"stock_id" json:"stock_id"`
	MedicationID   uuid.UUID `db:"medication_id" json:"medication_id"`
	MedicationName string    `db:"medication_name" json:"medication_name"`
	Batch          string    `db:"batch" json:"batch"`
	Quantity       int       `db:"quantity" json:"quantity"`
	MinStock       int       `db:"min_stock" json:"min_stock"`
	ExpirationDate time.Time `db:"expiration_date" json:"expiration_date"`
}

const (
	PrescriptionActive    = "active"
	PrescriptionDispensed = "dispensed"
	PrescriptionCancelled = "cancelled"
)

type Prescription struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConsultationID uuid.UUID `db:"consultation_id" json:"consultation_id"`
	CitizenID      uuid.UUID `db:"citizen_id" json:"citizen_id"`
	ProfessionalID uuid.UUID `db:"professional_id" json:"professional_id"`
	Medication     string    `db:"medication" json:"medication"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Frequency      string    `db:"frequency" json:"frequency"`
	Duration       string    `db:"duration" json:"duration"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Instructions   *string   `db:"instructions" json:"instructions,omitempty"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PrescriptionUpdate carries the fields a revision may change. Status moves
// through the transition table only.
type PrescriptionUpdate struct {
	Dosage       *string `json:"dosage,omitempty"`
	Frequency    *string `json:"frequency,omitempty"`
	Duration     *string `json:"duration,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	Status       *string `json:"status,omitempty"`
}

var prescriptionTransitions = map[string][]string{
	PrescriptionActive:    {PrescriptionDispensed, PrescriptionCancelled},
	PrescriptionDispensed: {},
	PrescriptionCancelled: {},
}

// CanTransition reports whether a prescription may move between the two
// statuses. Restating the current status is allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range prescriptionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Dispensing records one physical hand-over of medication against a
// prescription, drawn from a specific stock batch.
type Dispensing struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	StockID        uuid.UUID `db:"stock_id" json:"stock_id"`
	CitizenID      uuid.UUID `db:"citizen_id" json:"citizen_id"`
	Quantity       int       `db:"quantity" json:"quantity"`
	DispensedBy    uuid.UUID `db:"dispensed_by" json:"dispensed_by"`
	DispensedAt    time.Time `db:"dispensed_at" json:"dispensed_at"`
}
