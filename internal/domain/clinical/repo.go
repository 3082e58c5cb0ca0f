package clinical

import (
	"context"

	"github.com/google/uuid"
)

type ConsultationRepository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	// ListByCitizen returns the citizen's history, most recent first.
	ListByCitizen(ctx context.Context, citizenID uuid.UUID, limit, offset int) ([]*Consultation, int, error)
}

type ExamRepository interface {
	Create(ctx context.Context, e *Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	Update(ctx context.Context, e *Exam) error
	// ListByCitizen returns the citizen's exams, most recently requested first.
	ListByCitizen(ctx context.Context, citizenID uuid.UUID, limit, offset int) ([]*Exam, int, error)
}
