package pharmacy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atbasica/ubs-server/internal/platform/apperr"
)

func TestHandler_Dispense(t *testing.T) {
	f := newPharmacyFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	st := f.seedStock(t, 200)
	p := validPrescription()
	if err := f.svc.CreatePrescription(context.Background(), p); err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}

	body := `{"prescription_id":"` + p.ID.String() + `","stock_id":"` + st.ID.String() +
		`","quantity":60,"dispensed_by":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/prescriptions/dispense", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Dispense(c); err != nil {
		t.Fatalf("Dispense: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got Dispensing
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Quantity != 60 {
		t.Errorf("quantity = %d, want 60", got.Quantity)
	}
}

func TestHandler_Dispense_InsufficientStock(t *testing.T) {
	f := newPharmacyFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	st := f.seedStock(t, 10)
	p := validPrescription()
	if err := f.svc.CreatePrescription(context.Background(), p); err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}

	body := `{"prescription_id":"` + p.ID.String() + `","stock_id":"` + st.ID.String() +
		`","quantity":60,"dispensed_by":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/prescriptions/dispense", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Dispense(c); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandler_ListMedications(t *testing.T) {
	f := newPharmacyFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	f.seedStock(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/medications", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListMedications(c); err != nil {
		t.Fatalf("ListMedications: %v", err)
	}
	var resp struct {
		Data  []Medication `json:"data"`
		Total int          `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestHandler_LowStock_BadUnit(t *testing.T) {
	f := newPharmacyFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/medications/low-stock?unitId=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.LowStock(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_UpdatePrescription_Terminal(t *testing.T) {
	f := newPharmacyFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	p := validPrescription()
	if err := f.svc.CreatePrescription(context.Background(), p); err != nil {
		t.Fatalf("CreatePrescription: %v", err)
	}
	f.prescriptions.prescriptions[p.ID].Status = PrescriptionDispensed

	req := httptest.NewRequest(http.MethodPut, "/prescriptions/"+p.ID.String(),
		strings.NewReader(`{"status":"active"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.UpdatePrescription(c); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
