package clinical

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
	consultations ConsultationRepository
	exams         ExamRepository
	tx            db.TxRunner
	audit         AuditLogger
}

func NewService(consultations ConsultationRepository, exams ExamRepository, tx db.TxRunner, audit AuditLogger) *Service {
	return &Service{consultations: consultations, exams: exams, tx: tx, audit: audit}
}

func validateConsultation(c *Consultation) error {
	var fields []apperr.FieldError
	if c.CitizenID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "citizen_id", Message: "required"})
	}
	if c.ProfessionalID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "professional_id", Message: "required"})
	}
	if c.UnitID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "unit_id", Message: "required"})
	}
	if c.Type == "" {
		fields = append(fields, apperr.FieldError{Field: "type", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid consultation payload", fields...)
	}
	return nil
}

// CreateConsultation writes the care record and its audit entry in one
// transaction. The consultation date defaults to now when omitted.
func (s *Service) CreateConsultation(ctx context.Context, c *Consultation) error {
	if err := validateConsultation(c); err != nil {
		return err
	}
	if c.ConsultationDate.IsZero() {
		c.ConsultationDate = time.Now().UTC()
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.consultations.Create(ctx, c); err != nil {
			return err
		}
		return s.audit.Record(ctx, "create", "consultation", c.ID, c)
	})
	return apperr.FromStore(err, "consultation", nil)
}

func (s *Service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "consultation", nil)
	}
	return c, nil
}

func (s *Service) ListConsultations(ctx context.Context, citizenID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.consultations.ListByCitizen(ctx, citizenID, limit, offset)
}

func (s *Service) CreateExam(ctx context.Context, e *Exam) error {
	var fields []apperr.FieldError
	if e.CitizenID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "citizen_id", Message: "required"})
	}
	if e.ProfessionalID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "professional_id", Message: "required"})
	}
	if e.Type == "" {
		fields = append(fields, apperr.FieldError{Field: "type", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid exam payload", fields...)
	}
	if e.Status == "" {
		e.Status = ExamStatusPending
	}
	if e.RequestDate.IsZero() {
		e.RequestDate = time.Now().UTC()
	}
	return apperr.FromStore(s.exams.Create(ctx, e), "exam", nil)
}

func (s *Service) GetExam(ctx context.Context, id uuid.UUID) (*Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "exam", nil)
	}
	return e, nil
}

// UpdateExam applies a partial update. Registering a result without an
// explicit status moves the exam out of pending.
func (s *Service) UpdateExam(ctx context.Context, id uuid.UUID, upd *ExamUpdate) (*Exam, error) {
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "exam", nil)
	}
	if upd.CompletionDate != nil {
		e.CompletionDate = upd.CompletionDate
	}
	if upd.Result != nil {
		e.Result = upd.Result
		if upd.Status == nil && e.Status == ExamStatusPending {
			e.Status = "completed"
		}
	}
	if upd.Status != nil {
		if *upd.Status == "" {
			return nil, apperr.Validation("invalid exam payload",
				apperr.FieldError{Field: "status", Message: "must not be empty"})
		}
		e.Status = *upd.Status
	}
	if upd.Notes != nil {
		e.Notes = upd.Notes
	}
	if err := s.exams.Update(ctx, e); err != nil {
		return nil, apperr.FromStore(err, "exam", nil)
	}
	return e, nil
}

func (s *Service) ListExams(ctx context.Context, citizenID uuid.UUID, limit, offset int) ([]*Exam, int, error) {
	return s.exams.ListByCitizen(ctx, citizenID, limit, offset)
}
