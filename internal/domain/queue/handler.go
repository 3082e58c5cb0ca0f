package queue

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/queue", h.list)
	api.POST("/queue", h.enqueue)
	api.PUT("/queue/:id", h.update)
	api.POST("/queue/:id/call", h.call)
	api.POST("/queue/:id/complete", h.complete)
	api.DELETE("/queue/:id", h.remove)
}

func (h *Handler) list(c echo.Context) error {
	unitID, err := uuid.Parse(c.QueryParam("unitId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unitId must be a valid uuid")
	}
	entries, err := h.svc.List(c.Request().Context(), unitID, c.QueryParam("status"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) enqueue(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Enqueue(c.Request().Context(), &e); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a valid uuid")
	}
	var upd EntryUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	e, err := h.svc.Update(c.Request().Context(), id, &upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) call(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a valid uuid")
	}
	e, err := h.svc.Call(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a valid uuid")
	}
	e, err := h.svc.Complete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a valid uuid")
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
