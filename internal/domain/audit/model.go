// Package audit persists the mutation trail required by LGPD: who changed
// which entity, when, and what the record looked like after the change.
package audit

import (
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Action     string     `db:"action" json:"action"`
	EntityType string     `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID  `db:"entity_id" json:"entity_id"`
	Changes    []byte     `db:"changes" json:"changes,omitempty"`
	IPAddress  *string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  *string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
