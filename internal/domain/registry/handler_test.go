package registry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

func newTestHandler() (*Handler, *mockCitizenRepo) {
	svc, citizens, _, _ := newTestService()
	return NewHandler(svc), citizens
}

func TestHandler_CreateCitizen(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"name":"Maria Silva","cpf":"123.456.789-00","cns":"700000000000001",
		"birth_date":"1990-03-15T00:00:00Z","gender":"F"}`
	req := httptest.NewRequest(http.MethodPost, "/citizens", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateCitizen(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var created Citizen
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected id in response")
	}
}

func TestHandler_CreateCitizen_Invalid(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/citizens", strings.NewReader(`{"gender":"F"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateCitizen(c)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestHandler_GetCitizen_InvalidID(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/citizens/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetCitizen(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestHandler_GetCitizen_NotFound(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/citizens/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.GetCitizen(c)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestHandler_ListCitizens(t *testing.T) {
	h, citizens := newTestHandler()
	e := echo.New()

	c1 := validTestCitizen()
	c1.ID = uuid.New()
	citizens.citizens[c1.ID] = c1

	req := httptest.NewRequest(http.MethodGet, "/citizens", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListCitizens(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []Citizen `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("expected 1 citizen, got total=%d len=%d", resp.Total, len(resp.Data))
	}
}

func TestHandler_ListProfessionals_InvalidUnit(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/professionals?unitId=bogus", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListProfessionals(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestHandler_CreateUnit(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"name":"UBS Centro","cnes":"1234567","address":"Rua A, 10"}`
	req := httptest.NewRequest(http.MethodPost, "/units", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateUnit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var created HealthUnit
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !created.IsActive {
		t.Error("expected new unit to be active")
	}
}
