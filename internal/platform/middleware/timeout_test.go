package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRequestTimeout_HandlerCompletesInTime(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(time.Second)
	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestTimeout_HandlerExceedsDeadline(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(20 * time.Millisecond)
	handler := mw(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
		case <-time.After(time.Second):
		}
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", he.Code)
	}
}

func TestRequestTimeout_DeadlinePropagatedToHandler(t *testing.T) {
	e := echo.New()
	mw := RequestTimeout(time.Second)

	var hasDeadline bool
	handler := mw(func(c echo.Context) error {
		_, hasDeadline = c.Request().Context().Deadline()
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !hasDeadline {
		t.Fatal("expected request context to carry a deadline")
	}
}
