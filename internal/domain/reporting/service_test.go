package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

// mockStatsRepo serves fixed numbers and captures the windows it was asked
// about.
type mockStatsRepo struct {
	appointments  int
	waiting       int
	lowStock      int
	citizens      int
	newCitizens   int
	consultations int
	prescriptions int
	exams         int
	tfd           int
	byType        []TypeCount
	diagnoses     []DiagnosisCount
	usage         []MedicationUsage
	ages          []AgeBucket

	appointmentsFrom time.Time
	appointmentsTo   time.Time
	sinceSeen        time.Time
}

func (m *mockStatsRepo) CountAppointments(_ context.Context, _ *uuid.UUID, from, to time.Time) (int, error) {
	m.appointmentsFrom, m.appointmentsTo = from, to
	return m.appointments, nil
}

func (m *mockStatsRepo) CountQueueWaiting(_ context.Context, _ *uuid.UUID) (int, error) {
	return m.waiting, nil
}

func (m *mockStatsRepo) CountLowStock(_ context.Context, _ *uuid.UUID) (int, error) {
	return m.lowStock, nil
}

func (m *mockStatsRepo) CountCitizens(_ context.Context) (int, error) {
	return m.citizens, nil
}

func (m *mockStatsRepo) CountNewCitizens(_ context.Context, since time.Time) (int, error) {
	m.sinceSeen = since
	return m.newCitizens, nil
}

func (m *mockStatsRepo) CountConsultations(_ context.Context, _ *uuid.UUID, _ time.Time) (int, error) {
	return m.consultations, nil
}

func (m *mockStatsRepo) CountPrescriptions(_ context.Context, _ time.Time) (int, error) {
	return m.prescriptions, nil
}

func (m *mockStatsRepo) CountExams(_ context.Context, _ time.Time) (int, error) {
	return m.exams, nil
}

func (m *mockStatsRepo) CountTfdRequests(_ context.Context, _ *uuid.UUID, _ time.Time) (int, error) {
	return m.tfd, nil
}

func (m *mockStatsRepo) ConsultationsByType(_ context.Context, _ *uuid.UUID, _ time.Time) ([]TypeCount, error) {
	return m.byType, nil
}

func (m *mockStatsRepo) TopDiagnoses(_ context.Context, _ *uuid.UUID, _ time.Time, limit int) ([]DiagnosisCount, error) {
	if len(m.diagnoses) > limit {
		return m.diagnoses[:limit], nil
	}
	return m.diagnoses, nil
}

func (m *mockStatsRepo) MedicationUsage(_ context.Context, _ time.Time, limit int) ([]MedicationUsage, error) {
	if len(m.usage) > limit {
		return m.usage[:limit], nil
	}
	return m.usage, nil
}

func (m *mockStatsRepo) AgeDistribution(_ context.Context, _ *uuid.UUID) ([]AgeBucket, error) {
	return m.ages, nil
}

func TestDashboard_TodayWindow(t *testing.T) {
	repo := &mockStatsRepo{appointments: 12, waiting: 4, lowStock: 2, citizens: 3500}
	svc := NewService(repo)

	stats, err := svc.Dashboard(context.Background(), nil)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.AppointmentsToday != 12 || stats.QueueWaiting != 4 ||
		stats.LowStockCount != 2 || stats.TotalCitizens != 3500 {
		t.Errorf("stats = %+v", stats)
	}

	if h, m, s := repo.appointmentsFrom.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("window start not midnight: %v", repo.appointmentsFrom)
	}
	if got := repo.appointmentsTo.Sub(repo.appointmentsFrom); got != 24*time.Hour {
		t.Errorf("window width = %v, want 24h", got)
	}
}

func TestReport_Percentages(t *testing.T) {
	repo := &mockStatsRepo{
		citizens:      1000,
		consultations: 40,
		byType: []TypeCount{
			{Type: "rotina", Count: 30},
			{Type: "urgência", Count: 10},
		},
	}
	svc := NewService(repo)

	report, err := svc.Report(context.Background(), 30, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.ConsultationsByType[0].Percentage != 75.0 {
		t.Errorf("rotina percentage = %v, want 75", report.ConsultationsByType[0].Percentage)
	}
	if report.ConsultationsByType[1].Percentage != 25.0 {
		t.Errorf("urgência percentage = %v, want 25", report.ConsultationsByType[1].Percentage)
	}
}

func TestReport_ZeroTotalsYieldZeroPercent(t *testing.T) {
	repo := &mockStatsRepo{
		byType: []TypeCount{{Type: "rotina", Count: 0}},
	}
	svc := NewService(repo)

	report, err := svc.Report(context.Background(), 30, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got := report.ConsultationsByType[0].Percentage; got != 0 {
		t.Errorf("percentage = %v, want 0", got)
	}
	for _, b := range report.AgeDistribution {
		if b.Percentage != 0 {
			t.Errorf("bucket %s percentage = %v, want 0", b.Range, b.Percentage)
		}
	}
}

func TestReport_AgeBucketsComplete(t *testing.T) {
	repo := &mockStatsRepo{
		ages: []AgeBucket{
			{Range: "18-39", Count: 60},
			{Range: "60+", Count: 40},
		},
	}
	svc := NewService(repo)

	report, err := svc.Report(context.Background(), 30, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.AgeDistribution) != 5 {
		t.Fatalf("buckets = %d, want 5", len(report.AgeDistribution))
	}
	want := []string{"0-12", "13-17", "18-39", "40-59", "60+"}
	for i, b := range report.AgeDistribution {
		if b.Range != want[i] {
			t.Errorf("bucket %d = %q, want %q", i, b.Range, want[i])
		}
	}
	if report.AgeDistribution[2].Percentage != 60.0 {
		t.Errorf("18-39 percentage = %v, want 60", report.AgeDistribution[2].Percentage)
	}
	if report.AgeDistribution[0].Count != 0 {
		t.Errorf("0-12 count = %d, want 0", report.AgeDistribution[0].Count)
	}
}

func TestReport_DefaultAndInvalidPeriod(t *testing.T) {
	repo := &mockStatsRepo{}
	svc := NewService(repo)

	if _, err := svc.Report(context.Background(), 0, nil); err != nil {
		t.Fatalf("default period rejected: %v", err)
	}
	wantSince := time.Now().AddDate(0, 0, -30)
	if diff := repo.sinceSeen.Sub(wantSince); diff < -time.Minute || diff > time.Minute {
		t.Errorf("default window since = %v, want ~%v", repo.sinceSeen, wantSince)
	}

	if _, err := svc.Report(context.Background(), -1, nil); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for negative period, got %v", err)
	}
	if _, err := svc.Report(context.Background(), 5000, nil); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for oversized period, got %v", err)
	}
}

func TestReport_TopListsCapped(t *testing.T) {
	var diagnoses []DiagnosisCount
	for _, code := range []string{"I10", "E11", "J45", "M54", "F41", "K21", "N39"} {
		diagnoses = append(diagnoses, DiagnosisCount{Code: code, Count: 10})
	}
	repo := &mockStatsRepo{diagnoses: diagnoses}
	svc := NewService(repo)

	report, err := svc.Report(context.Background(), 30, nil)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.TopDiagnoses) != topListSize {
		t.Errorf("top diagnoses = %d, want %d", len(report.TopDiagnoses), topListSize)
	}
}
