// Package tfd handles out-of-town treatment referrals (Tratamento Fora do
// Domicílio): requests for procedures the municipality cannot perform
// locally, which move through an approval and scheduling workflow.
package tfd

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Request struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	CitizenID      uuid.UUID  `db:"citizen_id" json:"citizen_id"`
	ProfessionalID uuid.UUID  `db:"professional_id" json:"professional_id"`
	UnitID         uuid.UUID  `db:"unit_id" json:"unit_id"`
	Destination    string     `db:"destination" json:"destination"`
	Procedure      string     `db:"procedure" json:"procedure"`
	Justification  string     `db:"justification" json:"justification"`
	RequestDate    time.Time  `db:"request_date" json:"request_date"`
	TravelDate     *time.Time `db:"travel_date" json:"travel_date,omitempty"`
	ReturnDate     *time.Time `db:"return_date" json:"return_date,omitempty"`
	Status         string     `db:"status" json:"status"`
	ApprovedBy     *uuid.UUID `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	TransportType  *string    `db:"transport_type" json:"transport_type,omitempty"`
	Companion      bool       `db:"companion" json:"companion"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// RequestUpdate carries the fields a workflow step may change.
type RequestUpdate struct {
	Status        *string    `json:"status,omitempty"`
	ApprovedBy    *uuid.UUID `json:"approved_by,omitempty"`
	TravelDate    *time.Time `json:"travel_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	TransportType *string    `json:"transport_type,omitempty"`
	Companion     *bool      `json:"companion,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

var requestTransitions = map[string][]string{
	StatusPending:   {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether a referral may move between the two
// statuses. Restating the current status is allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
