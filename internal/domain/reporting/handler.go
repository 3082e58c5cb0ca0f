package reporting

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/stats/dashboard", h.Dashboard)
	api.GET("/reports", h.Report)
}

func parseUnitID(c echo.Context) (*uuid.UUID, error) {
	v := c.QueryParam("unitId")
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unitId must be a valid uuid")
	}
	return &id, nil
}

func (h *Handler) Dashboard(c echo.Context) error {
	unitID, err := parseUnitID(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Dashboard(c.Request().Context(), unitID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Report(c echo.Context) error {
	unitID, err := parseUnitID(c)
	if err != nil {
		return err
	}
	periodDays := 0
	if v := c.QueryParam("period"); v != "" {
		periodDays, err = strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "period must be a number of days")
		}
	}
	report, err := h.svc.Report(c.Request().Context(), periodDays, unitID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
