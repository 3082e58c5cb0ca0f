package registry

import (
	"context"

	"github.com/google/uuid"
)

type CitizenRepository interface {
	Create(ctx context.Context, c *Citizen) error
	GetByID(ctx context.Context, id uuid.UUID) (*Citizen, error)
	Update(ctx context.Context, c *Citizen) error
	List(ctx context.Context, search string, limit, offset int) ([]*Citizen, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
}

type ProfessionalRepository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id uuid.UUID) (*Professional, error)
	List(ctx context.Context, unitID *uuid.UUID, limit, offset int) ([]*Professional, int, error)
}

type HealthUnitRepository interface {
	Create(ctx context.Context, u *HealthUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthUnit, error)
	List(ctx context.Context, limit, offset int) ([]*HealthUnit, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
