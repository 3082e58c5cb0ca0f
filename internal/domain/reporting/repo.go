package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatsRepository exposes the raw counts the service turns into dashboard
// and report payloads. All unit filters are optional.
type StatsRepository interface {
	CountAppointments(ctx context.Context, unitID *uuid.UUID, from, to time.Time) (int, error)
	CountQueueWaiting(ctx context.Context, unitID *uuid.UUID) (int, error)
	CountLowStock(ctx context.Context, unitID *uuid.UUID) (int, error)
	CountCitizens(ctx context.Context) (int, error)
	CountNewCitizens(ctx context.Context, since time.Time) (int, error)
	CountConsultations(ctx context.Context, unitID *uuid.UUID, since time.Time) (int, error)
	CountPrescriptions(ctx context.Context, since time.Time) (int, error)
	CountExams(ctx context.Context, since time.Time) (int, error)
	CountTfdRequests(ctx context.Context, unitID *uuid.UUID, since time.Time) (int, error)
	ConsultationsByType(ctx context.Context, unitID *uuid.UUID, since time.Time) ([]TypeCount, error)
	TopDiagnoses(ctx context.Context, unitID *uuid.UUID, since time.Time, limit int) ([]DiagnosisCount, error)
	MedicationUsage(ctx context.Context, since time.Time, limit int) ([]MedicationUsage, error)
	AgeDistribution(ctx context.Context, unitID *uuid.UUID) ([]AgeBucket, error)
}
