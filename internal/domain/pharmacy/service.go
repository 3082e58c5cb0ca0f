package pharmacy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
	"github.com/atbasica/ubs-server/internal/platform/db"
)

// AuditLogger records a mutation alongside the entity it changed.
type AuditLogger interface {
	Record(ctx context.Context, action, entityType string, entityID uuid.UUID, changes interface{}) error
}

type Service struct {
	medications   MedicationRepository
	stock         StockRepository
	prescriptions PrescriptionRepository
	dispensings   DispensingRepository
	tx            db.TxRunner
	audit         AuditLogger
}

func NewService(medications MedicationRepository, stock StockRepository,
	prescriptions PrescriptionRepository, dispensings DispensingRepository,
	tx db.TxRunner, audit AuditLogger) *Service {
	return &Service{
		medications:   medications,
		stock:         stock,
		prescriptions: prescriptions,
		dispensings:   dispensings,
		tx:            tx,
		audit:         audit,
	}
}

// -- Medications --

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	var fields []apperr.FieldError
	if m.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "required"})
	}
	if m.Category == "" {
		fields = append(fields, apperr.FieldError{Field: "category", Message: "required"})
	}
	if m.UnitID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "unit_id", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid medication payload", fields...)
	}
	return apperr.FromStore(s.medications.Create(ctx, m), "medication", nil)
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "medication", nil)
	}
	return m, nil
}

func (s *Service) ListMedications(ctx context.Context, search string, unitID *uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.medications.List(ctx, search, unitID, limit, offset)
}

// -- Stock --

const defaultMinStock = 100

func (s *Service) CreateStock(ctx context.Context, st *Stock) error {
	var fields []apperr.FieldError
	if st.MedicationID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "medication_id", Message: "required"})
	}
	if st.Batch == "" {
		fields = append(fields, apperr.FieldError{Field: "batch", Message: "required"})
	}
	if st.Quantity < 0 {
		fields = append(fields, apperr.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if st.Unit == "" {
		fields = append(fields, apperr.FieldError{Field: "unit", Message: "required"})
	}
	if st.ExpirationDate.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "expiration_date", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid stock payload", fields...)
	}
	if st.MinStock == 0 {
		st.MinStock = defaultMinStock
	}
	if st.EntryDate.IsZero() {
		st.EntryDate = time.Now().UTC()
	}
	return apperr.FromStore(s.stock.Create(ctx, st), "stock batch", nil)
}

func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, upd *StockUpdate) (*Stock, error) {
	st, err := s.stock.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "stock batch", nil)
	}
	if upd.Quantity != nil {
		if *upd.Quantity < 0 {
			return nil, apperr.Validation("invalid stock payload",
				apperr.FieldError{Field: "quantity", Message: "must not be negative"})
		}
		st.Quantity = *upd.Quantity
	}
	if upd.MinStock != nil {
		st.MinStock = *upd.MinStock
	}
	if upd.ExpirationDate != nil {
		st.ExpirationDate = *upd.ExpirationDate
	}
	if err := s.stock.Update(ctx, st); err != nil {
		return nil, apperr.FromStore(err, "stock batch", nil)
	}
	return st, nil
}

func (s *Service) ListStock(ctx context.Context, medicationID uuid.UUID) ([]*Stock, error) {
	return s.stock.ListByMedication(ctx, medicationID)
}

func (s *Service) LowStock(ctx context.Context, unitID *uuid.UUID) ([]*LowStockRow, error) {
	return s.stock.LowStock(ctx, unitID)
}

// -- Prescriptions --

var prescriptionStatuses = map[string]bool{
	PrescriptionActive: true, PrescriptionDispensed: true, PrescriptionCancelled: true,
}

// CreatePrescription writes the prescription and its audit entry in one
// transaction. New prescriptions always start active.
func (s *Service) CreatePrescription(ctx context.Context, p *Prescription) error {
	var fields []apperr.FieldError
	if p.ConsultationID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "consultation_id", Message: "required"})
	}
	if p.CitizenID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "citizen_id", Message: "required"})
	}
	if p.ProfessionalID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "professional_id", Message: "required"})
	}
	if p.Medication == "" {
		fields = append(fields, apperr.FieldError{Field: "medication", Message: "required"})
	}
	if p.Dosage == "" {
		fields = append(fields, apperr.FieldError{Field: "dosage", Message: "required"})
	}
	if p.Frequency == "" {
		fields = append(fields, apperr.FieldError{Field: "frequency", Message: "required"})
	}
	if p.Duration == "" {
		fields = append(fields, apperr.FieldError{Field: "duration", Message: "required"})
	}
	if p.Quantity <= 0 {
		fields = append(fields, apperr.FieldError{Field: "quantity", Message: "must be positive"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid prescription payload", fields...)
	}
	p.Status = PrescriptionActive

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.prescriptions.Create(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, "create", "prescription", p.ID, p)
	})
	return apperr.FromStore(err, "prescription", nil)
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "prescription", nil)
	}
	return p, nil
}

func (s *Service) ListPrescriptions(ctx context.Context, f PrescriptionFilter, limit, offset int) ([]*Prescription, int, error) {
	if f.Status != "" && !prescriptionStatuses[f.Status] {
		return nil, 0, apperr.Validationf("invalid prescription status: %s", f.Status)
	}
	return s.prescriptions.List(ctx, f, limit, offset)
}

func (s *Service) UpdatePrescription(ctx context.Context, id uuid.UUID, upd *PrescriptionUpdate) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "prescription", nil)
	}

	if upd.Status != nil {
		if !prescriptionStatuses[*upd.Status] {
			return nil, apperr.Validationf("invalid prescription status: %s", *upd.Status)
		}
		if !CanTransition(p.Status, *upd.Status) {
			return nil, apperr.Validationf("invalid status transition: %s -> %s", p.Status, *upd.Status)
		}
		p.Status = *upd.Status
	}
	if upd.Dosage != nil {
		p.Dosage = *upd.Dosage
	}
	if upd.Frequency != nil {
		p.Frequency = *upd.Frequency
	}
	if upd.Duration != nil {
		p.Duration = *upd.Duration
	}
	if upd.Quantity != nil {
		if *upd.Quantity <= 0 {
			return nil, apperr.Validation("invalid prescription payload",
				apperr.FieldError{Field: "quantity", Message: "must be positive"})
		}
		p.Quantity = *upd.Quantity
	}
	if upd.Instructions != nil {
		p.Instructions = upd.Instructions
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.prescriptions.Update(ctx, p); err != nil {
			return err
		}
		return s.audit.Record(ctx, "update", "prescription", p.ID, p)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "prescription", nil)
	}
	return p, nil
}

// -- Dispensing --

// DispenseRequest describes one hand-over: which prescription, which stock
// batch it is drawn from, and who handed it out.
type DispenseRequest struct {
	PrescriptionID uuid.UUID `json:"prescription_id"`
	StockID        uuid.UUID `json:"stock_id"`
	Quantity       int       `json:"quantity"`
	DispensedBy    uuid.UUID `json:"dispensed_by"`
}

// Dispense records the hand-over, decrements the stock batch, and marks the
// prescription dispensed, all inside one transaction. A prescription that is
// not active, or a batch with less than the requested quantity, rejects the
// whole operation.
func (s *Service) Dispense(ctx context.Context, req *DispenseRequest) (*Dispensing, error) {
	var fields []apperr.FieldError
	if req.PrescriptionID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "prescription_id", Message: "required"})
	}
	if req.StockID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "stock_id", Message: "required"})
	}
	if req.Quantity <= 0 {
		fields = append(fields, apperr.FieldError{Field: "quantity", Message: "must be positive"})
	}
	if req.DispensedBy == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "dispensed_by", Message: "required"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid dispensing payload", fields...)
	}

	var d *Dispensing
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.prescriptions.GetByID(ctx, req.PrescriptionID)
		if err != nil {
			return apperr.FromStore(err, "prescription", nil)
		}
		if p.Status != PrescriptionActive {
			return apperr.Validationf("prescription is %s, only active prescriptions can be dispensed", p.Status)
		}

		st, err := s.stock.GetByID(ctx, req.StockID)
		if err != nil {
			return apperr.FromStore(err, "stock batch", nil)
		}
		if st.Quantity < req.Quantity {
			return apperr.Validationf("insufficient stock: batch %s has %d, requested %d",
				st.Batch, st.Quantity, req.Quantity)
		}

		st.Quantity -= req.Quantity
		if err := s.stock.Update(ctx, st); err != nil {
			return err
		}

		p.Status = PrescriptionDispensed
		if err := s.prescriptions.Update(ctx, p); err != nil {
			return err
		}

		d = &Dispensing{
			PrescriptionID: p.ID,
			StockID:        st.ID,
			CitizenID:      p.CitizenID,
			Quantity:       req.Quantity,
			DispensedBy:    req.DispensedBy,
			DispensedAt:    time.Now().UTC(),
		}
		if err := s.dispensings.Create(ctx, d); err != nil {
			return err
		}
		return s.audit.Record(ctx, "create", "dispensing", d.ID, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDispensings(ctx context.Context, prescriptionID uuid.UUID) ([]*Dispensing, error) {
	return s.dispensings.ListByPrescription(ctx, prescriptionID)
}
