package audit

import (
	"context"

	"github.com/google/uuid"
)

type RecordRepository interface {
	Create(ctx context.Context, r *Record) error
	// ListByEntity returns the trail for one entity, newest first.
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]*Record, int, error)
}
