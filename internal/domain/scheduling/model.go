package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment maps to the appointments table.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	CitizenID       uuid.UUID `db:"citizen_id" json:"citizen_id"`
	ProfessionalID  uuid.UUID `db:"professional_id" json:"professional_id"`
	UnitID          uuid.UUID `db:"unit_id" json:"unit_id"`
	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	Type            string    `db:"type" json:"type"`
	Status          string    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AppointmentUpdate carries the mutable fields of a partial update. Nil
// fields are left unchanged.
type AppointmentUpdate struct {
	ProfessionalID  *uuid.UUID `json:"professional_id,omitempty"`
	AppointmentDate *time.Time `json:"appointment_date,omitempty"`
	Type            *string    `json:"type,omitempty"`
	Status          *string    `json:"status,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// appointmentTransitions is the allowed transition table. completed,
// cancelled and no_show are terminal.
var appointmentTransitions = map[string]map[string]bool{
	StatusScheduled: {StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
}

// CanTransition reports whether an appointment may move from one status to
// another. A status may always restate itself.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return appointmentTransitions[from][to]
}
