package reporting

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 365
	topListSize       = 5
)

// ageBucketOrder fixes the presentation order of the distribution.
var ageBucketOrder = []string{"0-12", "13-17", "18-39", "40-59", "60+"}

type Service struct {
	stats StatsRepository
}

func NewService(stats StatsRepository) *Service {
	return &Service{stats: stats}
}

// Dashboard returns the front-desk snapshot. Citizen total is municipal
// (never unit-scoped); the other counters honor the unit filter.
func (s *Service) Dashboard(ctx context.Context, unitID *uuid.UUID) (*DashboardStats, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	appointments, err := s.stats.CountAppointments(ctx, unitID, todayStart, tomorrowStart)
	if err != nil {
		return nil, err
	}
	waiting, err := s.stats.CountQueueWaiting(ctx, unitID)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.stats.CountLowStock(ctx, unitID)
	if err != nil {
		return nil, err
	}
	citizens, err := s.stats.CountCitizens(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		AppointmentsToday: appointments,
		QueueWaiting:      waiting,
		LowStockCount:     lowStock,
		TotalCitizens:     citizens,
	}, nil
}

// percentage computes count/total*100 rounded to one decimal. A zero total
// yields 0, never NaN.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// Report builds the periodic report over the trailing periodDays window.
func (s *Service) Report(ctx context.Context, periodDays int, unitID *uuid.UUID) (*Report, error) {
	if periodDays == 0 {
		periodDays = defaultPeriodDays
	}
	if periodDays < 1 || periodDays > maxPeriodDays {
		return nil, apperr.Validationf("period must be between 1 and %d days", maxPeriodDays)
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	totalPatients, err := s.stats.CountCitizens(ctx)
	if err != nil {
		return nil, err
	}
	newPatients, err := s.stats.CountNewCitizens(ctx, since)
	if err != nil {
		return nil, err
	}
	consultations, err := s.stats.CountConsultations(ctx, unitID, since)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.stats.CountPrescriptions(ctx, since)
	if err != nil {
		return nil, err
	}
	exams, err := s.stats.CountExams(ctx, since)
	if err != nil {
		return nil, err
	}
	tfdRequests, err := s.stats.CountTfdRequests(ctx, unitID, since)
	if err != nil {
		return nil, err
	}

	byType, err := s.stats.ConsultationsByType(ctx, unitID, since)
	if err != nil {
		return nil, err
	}
	for i := range byType {
		byType[i].Percentage = percentage(byType[i].Count, consultations)
	}

	diagnoses, err := s.stats.TopDiagnoses(ctx, unitID, since, topListSize)
	if err != nil {
		return nil, err
	}
	usage, err := s.stats.MedicationUsage(ctx, since, topListSize)
	if err != nil {
		return nil, err
	}

	ages, err := s.stats.AgeDistribution(ctx, unitID)
	if err != nil {
		return nil, err
	}
	ages = normalizeAgeBuckets(ages)

	if byType == nil {
		byType = []TypeCount{}
	}
	if diagnoses == nil {
		diagnoses = []DiagnosisCount{}
	}
	if usage == nil {
		usage = []MedicationUsage{}
	}

	return &Report{
		Summary: Summary{
			TotalPatients:      totalPatients,
			NewPatients:        newPatients,
			TotalConsultations: consultations,
			TotalPrescriptions: prescriptions,
			TotalExams:         exams,
			TfdRequests:        tfdRequests,
		},
		ConsultationsByType: byType,
		TopDiagnoses:        diagnoses,
		MedicationUsage:     usage,
		AgeDistribution:     ages,
	}, nil
}

// normalizeAgeBuckets fills missing buckets with zero counts, orders them
// youngest first, and computes percentages.
func normalizeAgeBuckets(in []AgeBucket) []AgeBucket {
	counts := make(map[string]int, len(in))
	total := 0
	for _, b := range in {
		counts[b.Range] = b.Count
		total += b.Count
	}
	out := make([]AgeBucket, 0, len(ageBucketOrder))
	for _, r := range ageBucketOrder {
		out = append(out, AgeBucket{
			Range:      r,
			Count:      counts[r],
			Percentage: percentage(counts[r], total),
		})
	}
	return out
}
