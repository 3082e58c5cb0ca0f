package audit

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atbasica/ubs-server/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit", h.Trail)
}

func (h *Handler) Trail(c echo.Context) error {
	entityType := c.QueryParam("entityType")
	if entityType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "entityType is required")
	}
	entityID, err := uuid.Parse(c.QueryParam("entityId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "entityId must be a valid uuid")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Trail(c.Request().Context(), entityType, entityID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
