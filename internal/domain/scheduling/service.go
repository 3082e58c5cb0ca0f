package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

// maxListRows caps appointment listings.
const maxListRows = 100

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

type Service struct {
	appointments AppointmentRepository
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments}
}

// Create persists a new appointment in status scheduled. No double-booking
// check is made; the same professional may hold overlapping appointments.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	var fields []apperr.FieldError
	if a.CitizenID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "citizen_id", Message: "required"})
	}
	if a.ProfessionalID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "professional_id", Message: "required"})
	}
	if a.UnitID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "unit_id", Message: "required"})
	}
	if a.AppointmentDate.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "appointment_date", Message: "required"})
	}
	if a.Type == "" {
		fields = append(fields, apperr.FieldError{Field: "type", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid appointment payload", fields...)
	}
	a.Status = StatusScheduled
	return apperr.FromStore(s.appointments.Create(ctx, a), "appointment", nil)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "appointment", nil)
	}
	return a, nil
}

// List returns appointments matching the filter, ascending by date, at most
// limit rows (capped at 100; 100 when unset). A Day filter is normalized to
// local midnight so it covers the entire calendar day.
func (s *Service) List(ctx context.Context, f Filter, limit int) ([]*Appointment, error) {
	if limit <= 0 || limit > maxListRows {
		limit = maxListRows
	}
	if f.Day != nil {
		midnight := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, f.Day.Location())
		f.Day = &midnight
	}
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, apperr.Validationf("invalid appointment status: %s", f.Status)
	}
	return s.appointments.List(ctx, f, limit)
}

// Update applies a partial update. Status changes must follow the
// transition table; disallowed moves are rejected.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd *AppointmentUpdate) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "appointment", nil)
	}

	if upd.Status != nil {
		if !validStatuses[*upd.Status] {
			return nil, apperr.Validationf("invalid appointment status: %s", *upd.Status)
		}
		if !CanTransition(a.Status, *upd.Status) {
			return nil, apperr.Validationf("invalid status transition: %s -> %s", a.Status, *upd.Status)
		}
		a.Status = *upd.Status
	}
	if upd.ProfessionalID != nil {
		a.ProfessionalID = *upd.ProfessionalID
	}
	if upd.AppointmentDate != nil {
		a.AppointmentDate = *upd.AppointmentDate
	}
	if upd.Type != nil {
		a.Type = *upd.Type
	}
	if upd.Notes != nil {
		a.Notes = upd.Notes
	}

	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, apperr.FromStore(err, "appointment", nil)
	}
	return a, nil
}
