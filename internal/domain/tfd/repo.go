package tfd

import (
	"context"

	"github.com/google/uuid"
)

type Filter struct {
	CitizenID *uuid.UUID
	Status    string
}

type RequestRepository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Update(ctx context.Context, r *Request) error
	// List returns referrals most recently requested first.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error)
}
