package clinical

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

type mockConsultationRepo struct {
	consultations map[uuid.UUID]*Consultation
}

func (m *mockConsultationRepo) Create(_ context.Context, c *Consultation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	m.consultations[c.ID] = &cp
	return nil
}

func (m *mockConsultationRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultation, error) {
	c, ok := m.consultations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (m *mockConsultationRepo) ListByCitizen(_ context.Context, citizenID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	var out []*Consultation
	for _, c := range m.consultations {
		if c.CitizenID == citizenID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ConsultationDate.After(out[j].ConsultationDate)
	})
	total := len(out)
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type mockExamRepo struct {
	exams map[uuid.UUID]*Exam
}

func (m *mockExamRepo) Create(_ context.Context, e *Exam) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id uuid.UUID) (*Exam, error) {
	e, ok := m.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (m *mockExamRepo) Update(_ context.Context, e *Exam) error {
	if _, ok := m.exams[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *e
	m.exams[e.ID] = &cp
	return nil
}

func (m *mockExamRepo) ListByCitizen(_ context.Context, citizenID uuid.UUID, limit, offset int) ([]*Exam, int, error) {
	var out []*Exam
	for _, e := range m.exams {
		if e.CitizenID == citizenID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestDate.After(out[j].RequestDate)
	})
	total := len(out)
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type passTxRunner struct{}

func (passTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type auditEntry struct {
	action     string
	entityType string
	entityID   uuid.UUID
}

type mockAudit struct {
	entries []auditEntry
}

func (m *mockAudit) Record(_ context.Context, action, entityType string, entityID uuid.UUID, _ interface{}) error {
	m.entries = append(m.entries, auditEntry{action: action, entityType: entityType, entityID: entityID})
	return nil
}

func newTestService() (*Service, *mockConsultationRepo, *mockExamRepo, *mockAudit) {
	consultations := &mockConsultationRepo{consultations: make(map[uuid.UUID]*Consultation)}
	exams := &mockExamRepo{exams: make(map[uuid.UUID]*Exam)}
	audit := &mockAudit{}
	return NewService(consultations, exams, passTxRunner{}, audit), consultations, exams, audit
}

func validConsultation() *Consultation {
	diagnosis := "Hipertensão arterial"
	return &Consultation{
		CitizenID:      uuid.New(),
		ProfessionalID: uuid.New(),
		UnitID:         uuid.New(),
		Type:           "rotina",
		Diagnosis:      &diagnosis,
		CID10:          []string{"I10"},
	}
}

func TestCreateConsultation_Valid(t *testing.T) {
	svc, _, _, audit := newTestService()

	c := validConsultation()
	if err := svc.CreateConsultation(context.Background(), c); err != nil {
		t.Fatalf("CreateConsultation: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if c.ConsultationDate.IsZero() {
		t.Error("consultation date not defaulted")
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "create" || audit.entries[0].entityType != "consultation" {
		t.Errorf("audit entries = %+v", audit.entries)
	}
}

func TestCreateConsultation_MissingFields(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.CreateConsultation(context.Background(), &Consultation{})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 4 {
		t.Errorf("field errors = %d, want 4", len(ve.Fields))
	}
}

func TestGetConsultation_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.GetConsultation(context.Background(), uuid.New()); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListConsultations_MostRecentFirst(t *testing.T) {
	svc, _, _, _ := newTestService()
	citizen := uuid.New()

	for _, day := range []int{10, 12, 11} {
		c := validConsultation()
		c.CitizenID = citizen
		c.ConsultationDate = time.Date(2025, 6, day, 9, 0, 0, 0, time.UTC)
		if err := svc.CreateConsultation(context.Background(), c); err != nil {
			t.Fatalf("CreateConsultation: %v", err)
		}
	}

	got, total, err := svc.ListConsultations(context.Background(), citizen, 20, 0)
	if err != nil {
		t.Fatalf("ListConsultations: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	for i := 1; i < len(got); i++ {
		if got[i].ConsultationDate.After(got[i-1].ConsultationDate) {
			t.Errorf("history not in descending date order at %d", i)
		}
	}
}

func TestCreateExam_Defaults(t *testing.T) {
	svc, _, _, _ := newTestService()

	e := &Exam{CitizenID: uuid.New(), ProfessionalID: uuid.New(), Type: "hemograma"}
	if err := svc.CreateExam(context.Background(), e); err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if e.Status != ExamStatusPending {
		t.Errorf("status = %q, want pending", e.Status)
	}
	if e.RequestDate.IsZero() {
		t.Error("request date not defaulted")
	}
}

func TestCreateExam_MissingType(t *testing.T) {
	svc, _, _, _ := newTestService()

	e := &Exam{CitizenID: uuid.New(), ProfessionalID: uuid.New()}
	if err := svc.CreateExam(context.Background(), e); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateExam_ResultCompletesPending(t *testing.T) {
	svc, _, _, _ := newTestService()

	e := &Exam{CitizenID: uuid.New(), ProfessionalID: uuid.New(), Type: "hemograma"}
	if err := svc.CreateExam(context.Background(), e); err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	result := "sem alterações"
	got, err := svc.UpdateExam(context.Background(), e.ID, &ExamUpdate{Result: &result})
	if err != nil {
		t.Fatalf("UpdateExam: %v", err)
	}
	if got.Result == nil || *got.Result != result {
		t.Error("result not stored")
	}
	if got.Status != "completed" {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestUpdateExam_ExplicitStatusWins(t *testing.T) {
	svc, _, _, _ := newTestService()

	e := &Exam{CitizenID: uuid.New(), ProfessionalID: uuid.New(), Type: "raio-x"}
	if err := svc.CreateExam(context.Background(), e); err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	result := "fratura consolidada"
	status := "reviewed"
	got, err := svc.UpdateExam(context.Background(), e.ID, &ExamUpdate{Result: &result, Status: &status})
	if err != nil {
		t.Fatalf("UpdateExam: %v", err)
	}
	if got.Status != "reviewed" {
		t.Errorf("status = %q, want reviewed", got.Status)
	}
}

func TestUpdateExam_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	status := "completed"
	if _, err := svc.UpdateExam(context.Background(), uuid.New(), &ExamUpdate{Status: &status}); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
