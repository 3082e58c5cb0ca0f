package queue

import (
	"context"

	"github.com/google/uuid"
)

type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns entries for the unit ordered by priority descending,
	// then arrival time ascending. status narrows the result when non-empty.
	List(ctx context.Context, unitID uuid.UUID, status string) ([]*Entry, error)
	CountByUnit(ctx context.Context, unitID uuid.UUID) (int, error)
}
