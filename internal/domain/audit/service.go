package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Service writes audit records. It satisfies the AuditLogger interface each
// domain service declares, so mutations and their trail land in the same
// transaction when called under db.WithTx.
type Service struct {
	records RecordRepository
}

func NewService(records RecordRepository) *Service {
	return &Service{records: records}
}

// Record serializes the post-change state and stores the trail row. The
// user is unset: the API runs unauthenticated and the request-level actor
// is captured by the HTTP audit middleware instead.
func (s *Service) Record(ctx context.Context, action, entityType string, entityID uuid.UUID, changes interface{}) error {
	var payload []byte
	if changes != nil {
		b, err := json.Marshal(changes)
		if err != nil {
			return err
		}
		payload = b
	}
	return s.records.Create(ctx, &Record{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    payload,
	})
}

// Trail returns the stored records for one entity, newest first.
func (s *Service) Trail(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.records.ListByEntity(ctx, entityType, entityID, limit, offset)
}
