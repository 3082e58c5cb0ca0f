// Package clinical covers the care record itself: consultations written by
// professionals during attendance, and the exams they request. Consultations
// are append-mostly; once written they are never edited, only read back for
// the citizen's history.
package clinical

import (
	"time"

	"github.com/google/uuid"
)

type Consultation struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	CitizenID        uuid.UUID  `db:"citizen_id" json:"citizen_id"`
	ProfessionalID   uuid.UUID  `db:"professional_id" json:"professional_id"`
	UnitID           uuid.UUID  `db:"unit_id" json:"unit_id"`
	AppointmentID    *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	ConsultationDate time.Time  `db:"consultation_date" json:"consultation_date"`
	Type             string     `db:"type" json:"type"`
	ChiefComplaint   *string    `db:"chief_complaint" json:"chief_complaint,omitempty"`
	Anamnesis        *string    `db:"anamnesis" json:"anamnesis,omitempty"`
	PhysicalExam     *string    `db:"physical_exam" json:"physical_exam,omitempty"`
	Diagnosis        *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	CID10            []string   `db:"cid10" json:"cid10"`
	Treatment        *string    `db:"treatment" json:"treatment,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

const ExamStatusPending = "pending"

type Exam struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ConsultationID *uuid.UUID `db:"consultation_id" json:"consultation_id,omitempty"`
	CitizenID      uuid.UUID  `db:"citizen_id" json:"citizen_id"`
	ProfessionalID uuid.UUID  `db:"professional_id" json:"professional_id"`
	Type           string     `db:"type" json:"type"`
	RequestDate    time.Time  `db:"request_date" json:"request_date"`
	CompletionDate *time.Time `db:"completion_date" json:"completion_date,omitempty"`
	Result         *string    `db:"result" json:"result,omitempty"`
	Status         string     `db:"status" json:"status"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ExamUpdate carries the fields a follow-up may change: the lab registers
// the result and completion, or the requester amends status and notes.
type ExamUpdate struct {
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Result         *string    `json:"result,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}
