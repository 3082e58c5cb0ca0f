package queue

import (
	"time"

	"github.com/google/uuid"
)

// Entry statuses.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priorities, in ascending order of urgency.
const (
	PriorityNormal    = "normal"
	PriorityUrgent    = "urgent"
	PriorityEmergency = "emergency"
)

// Entry maps to the attendance_queue table: a same-day walk-in ticket for a
// citizen at a unit. ArrivedAt is set at admission and never changes.
type Entry struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	CitizenID      uuid.UUID  `db:"citizen_id" json:"citizen_id"`
	UnitID         uuid.UUID  `db:"unit_id" json:"unit_id"`
	Ticket         string     `db:"ticket" json:"ticket"`
	Priority       string     `db:"priority" json:"priority"`
	Type           string     `db:"type" json:"type"`
	Status         string     `db:"status" json:"status"`
	ArrivedAt      time.Time  `db:"arrived_at" json:"arrived_at"`
	CalledAt       *time.Time `db:"called_at" json:"called_at,omitempty"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	ProfessionalID *uuid.UUID `db:"professional_id" json:"professional_id,omitempty"`
	Room           *string    `db:"room" json:"room,omitempty"`
}

// EntryUpdate carries the mutable fields of a partial update.
type EntryUpdate struct {
	Status         *string    `json:"status,omitempty"`
	ProfessionalID *uuid.UUID `json:"professional_id,omitempty"`
	Room           *string    `json:"room,omitempty"`
}

// entryTransitions is the allowed transition table. completed and
// cancelled are terminal.
var entryTransitions = map[string]map[string]bool{
	StatusWaiting:    {StatusInProgress: true, StatusCancelled: true},
	StatusInProgress: {StatusCompleted: true, StatusCancelled: true},
}

// CanTransition reports whether a queue entry may move between statuses.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return entryTransitions[from][to]
}

// priorityRank orders entries for service: emergency and urgent ahead of
// normal.
var priorityRank = map[string]int{
	PriorityEmergency: 3,
	PriorityUrgent:    2,
	PriorityNormal:    1,
}

// Rank returns the service-order weight of a priority.
func Rank(priority string) int { return priorityRank[priority] }
