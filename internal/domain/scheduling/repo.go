package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows an appointment listing. Day, when set, matches the full
// calendar day containing it regardless of time-of-day.
type Filter struct {
	CitizenID      *uuid.UUID
	ProfessionalID *uuid.UUID
	UnitID         *uuid.UUID
	Status         string
	Day            *time.Time
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	List(ctx context.Context, f Filter, limit int) ([]*Appointment, error)
}
