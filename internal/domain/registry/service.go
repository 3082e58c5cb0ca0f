package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
	"github.com/atbasica/ubs-server/internal/platform/db"
)

// AuditLogger records a mutation alongside the entity it changed. The audit
// domain provides the implementation; it is an interface here so service
// tests can substitute a mock.
type AuditLogger interface {
	Record(ctx context.Context, action, entityType string, entityID uuid.UUID, changes interface{}) error
}

var citizenConflicts = map[string]string{
	"citizens_cpf_key": "cpf already registered",
	"citizens_cns_key": "cns already registered",
}

var professionalConflicts = map[string]string{
	"professionals_cns_key": "cns already registered",
}

var unitConflicts = map[string]string{
	"health_units_cnes_key": "cnes already registered",
}

var validGenders = map[string]bool{"M": true, "F": true, "Outro": true}

type Service struct {
	citizens      CitizenRepository
	professionals ProfessionalRepository
	units         HealthUnitRepository
	tx            db.TxRunner
	audit         AuditLogger
}

func NewService(citizens CitizenRepository, professionals ProfessionalRepository, units HealthUnitRepository, tx db.TxRunner, audit AuditLogger) *Service {
	return &Service{citizens: citizens, professionals: professionals, units: units, tx: tx, audit: audit}
}

// -- Citizen --

func validateCitizen(c *Citizen) error {
	var fields []apperr.FieldError
	if c.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "required"})
	}
	if c.CPF == "" {
		fields = append(fields, apperr.FieldError{Field: "cpf", Message: "required"})
	}
	if c.CNS == "" {
		fields = append(fields, apperr.FieldError{Field: "cns", Message: "required"})
	}
	if c.BirthDate.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "birth_date", Message: "required"})
	}
	if !validGenders[c.Gender] {
		fields = append(fields, apperr.FieldError{Field: "gender", Message: "must be M, F or Outro"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid citizen payload", fields...)
	}
	return nil
}

// CreateCitizen persists a new citizen and its audit record in one
// transaction. Duplicate CPF or CNS surfaces as a ConflictError from the
// store's uniqueness constraint; there is no pre-check.
func (s *Service) CreateCitizen(ctx context.Context, c *Citizen) error {
	if err := validateCitizen(c); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.citizens.Create(ctx, c); err != nil {
			return err
		}
		return s.audit.Record(ctx, "create", "citizen", c.ID, c)
	})
	return apperr.FromStore(err, "citizen", citizenConflicts)
}

func (s *Service) GetCitizen(ctx context.Context, id uuid.UUID) (*Citizen, error) {
	c, err := s.citizens.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "citizen", nil)
	}
	return c, nil
}

// UpdateCitizen applies the mutable fields of c to the stored citizen.
// CPF and CNS from the payload are ignored.
func (s *Service) UpdateCitizen(ctx context.Context, c *Citizen) error {
	existing, err := s.citizens.GetByID(ctx, c.ID)
	if err != nil {
		return apperr.FromStore(err, "citizen", nil)
	}
	c.CPF = existing.CPF
	c.CNS = existing.CNS
	if err := validateCitizen(c); err != nil {
		return err
	}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.citizens.Update(ctx, c); err != nil {
			return err
		}
		return s.audit.Record(ctx, "update", "citizen", c.ID, c)
	})
	return apperr.FromStore(err, "citizen", citizenConflicts)
}

func (s *Service) ListCitizens(ctx context.Context, search string, limit, offset int) ([]*Citizen, int, error) {
	return s.citizens.List(ctx, search, limit, offset)
}

// CitizenExists reports whether the citizen is registered. The queue uses
// this as an admission check.
func (s *Service) CitizenExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.citizens.Exists(ctx, id)
}

// -- Professional --

func (s *Service) CreateProfessional(ctx context.Context, p *Professional) error {
	var fields []apperr.FieldError
	if p.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "required"})
	}
	if p.CNS == "" {
		fields = append(fields, apperr.FieldError{Field: "cns", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid professional payload", fields...)
	}
	return apperr.FromStore(s.professionals.Create(ctx, p), "professional", professionalConflicts)
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*Professional, error) {
	p, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "professional", nil)
	}
	return p, nil
}

func (s *Service) ListProfessionals(ctx context.Context, unitID *uuid.UUID, limit, offset int) ([]*Professional, int, error) {
	return s.professionals.List(ctx, unitID, limit, offset)
}

// -- HealthUnit --

func (s *Service) CreateUnit(ctx context.Context, u *HealthUnit) error {
	var fields []apperr.FieldError
	if u.Name == "" {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "required"})
	}
	if u.CNES == "" {
		fields = append(fields, apperr.FieldError{Field: "cnes", Message: "required"})
	}
	if u.Address == "" {
		fields = append(fields, apperr.FieldError{Field: "address", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid health unit payload", fields...)
	}
	return apperr.FromStore(s.units.Create(ctx, u), "health unit", unitConflicts)
}

func (s *Service) GetUnit(ctx context.Context, id uuid.UUID) (*HealthUnit, error) {
	u, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "health unit", nil)
	}
	return u, nil
}

func (s *Service) ListUnits(ctx context.Context, limit, offset int) ([]*HealthUnit, int, error) {
	return s.units.List(ctx, limit, offset)
}

// UnitExists reports whether the unit is registered.
func (s *Service) UnitExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.units.Exists(ctx, id)
}
