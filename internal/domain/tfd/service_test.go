package tfd

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

type mockRequestRepo struct {
	requests map[uuid.UUID]*Request
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[uuid.UUID]*Request)}
}

func (m *mockRequestRepo) Create(_ context.Context, r *Request) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *mockRequestRepo) Update(_ context.Context, r *Request) error {
	if _, ok := m.requests[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *mockRequestRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	var out []*Request
	for _, r := range m.requests {
		if f.CitizenID != nil && r.CitizenID != *f.CitizenID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestDate.After(out[j].RequestDate) })
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

func validRequest() *Request {
	return &Request{
		CitizenID:      uuid.New(),
		ProfessionalID: uuid.New(),
		UnitID:         uuid.New(),
		Destination:    "Hospital de Base, São Paulo",
		Procedure:      "Ressonância magnética",
		Justification:  "Equipamento indisponível no município",
	}
}

func TestCreate_StartsPending(t *testing.T) {
	svc := NewService(newMockRequestRepo())

	r := validRequest()
	r.Status = StatusApproved
	approver := uuid.New()
	r.ApprovedBy = &approver
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Status != StatusPending {
		t.Errorf("status = %q, want pending", r.Status)
	}
	if r.ApprovedBy != nil || r.ApprovedAt != nil {
		t.Error("approval fields not cleared on create")
	}
	if r.RequestDate.IsZero() {
		t.Error("request date not defaulted")
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := NewService(newMockRequestRepo())
	if err := svc.Create(context.Background(), &Request{}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_ApproveStampsApproval(t *testing.T) {
	svc := NewService(newMockRequestRepo())
	r := validRequest()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	approver := uuid.New()
	status := StatusApproved
	got, err := svc.Update(context.Background(), r.ID, &RequestUpdate{Status: &status, ApprovedBy: &approver})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != StatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != approver {
		t.Error("approved_by not stored")
	}
	if got.ApprovedAt == nil {
		t.Error("approved_at not stamped")
	}
}

func TestUpdate_ApproveWithoutApprover(t *testing.T) {
	svc := NewService(newMockRequestRepo())
	r := validRequest()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := StatusApproved
	if _, err := svc.Update(context.Background(), r.ID, &RequestUpdate{Status: &status}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_WorkflowTransitions(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to scheduled skips approval", StatusPending, StatusScheduled, false},
		{"pending to completed skips workflow", StatusPending, StatusCompleted, false},
		{"approved to scheduled", StatusApproved, StatusScheduled, true},
		{"approved to cancelled", StatusApproved, StatusCancelled, true},
		{"scheduled to completed", StatusScheduled, StatusCompleted, true},
		{"scheduled to cancelled", StatusScheduled, StatusCancelled, true},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"restating is allowed", StatusScheduled, StatusScheduled, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockRequestRepo()
			svc := NewService(repo)
			r := validRequest()
			if err := svc.Create(context.Background(), r); err != nil {
				t.Fatalf("Create: %v", err)
			}
			repo.requests[r.ID].Status = tc.from

			approver := uuid.New()
			_, err := svc.Update(context.Background(), r.ID, &RequestUpdate{Status: &tc.to, ApprovedBy: &approver})
			if tc.ok && err != nil {
				t.Fatalf("transition %s -> %s rejected: %v", tc.from, tc.to, err)
			}
			if !tc.ok && !apperr.IsValidation(err) {
				t.Fatalf("transition %s -> %s: expected validation error, got %v", tc.from, tc.to, err)
			}
		})
	}
}

func TestUpdate_TravelDetails(t *testing.T) {
	svc := NewService(newMockRequestRepo())
	r := validRequest()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	travel := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)
	transport := "van sanitária"
	companion := true
	got, err := svc.Update(context.Background(), r.ID, &RequestUpdate{
		TravelDate:    &travel,
		ReturnDate:    &ret,
		TransportType: &transport,
		Companion:     &companion,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.TravelDate == nil || !got.TravelDate.Equal(travel) {
		t.Error("travel date not stored")
	}
	if !got.Companion {
		t.Error("companion flag not stored")
	}
	if got.Status != StatusPending {
		t.Errorf("status changed unexpectedly to %q", got.Status)
	}
}

func TestList_FilterAndOrder(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewService(repo)
	citizen := uuid.New()

	for _, day := range []int{5, 9, 7} {
		r := validRequest()
		r.CitizenID = citizen
		r.RequestDate = time.Date(2025, 6, day, 10, 0, 0, 0, time.UTC)
		if err := svc.Create(context.Background(), r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, total, err := svc.List(context.Background(), Filter{CitizenID: &citizen}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	for i := 1; i < len(got); i++ {
		if got[i].RequestDate.After(got[i-1].RequestDate) {
			t.Errorf("not in descending request date order at %d", i)
		}
	}
}

func TestList_InvalidStatus(t *testing.T) {
	svc := NewService(newMockRequestRepo())
	if _, _, err := svc.List(context.Background(), Filter{Status: "denied"}, 20, 0); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMockRequestRepo())
	if _, err := svc.Get(context.Background(), uuid.New()); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
