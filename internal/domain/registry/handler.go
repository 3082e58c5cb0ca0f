package registry

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atbasica/ubs-server/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/citizens", h.ListCitizens)
	api.GET("/citizens/:id", h.GetCitizen)
	api.POST("/citizens", h.CreateCitizen)
	api.PUT("/citizens/:id", h.UpdateCitizen)

	api.GET("/professionals", h.ListProfessionals)
	api.GET("/professionals/:id", h.GetProfessional)
	api.POST("/professionals", h.CreateProfessional)

	api.GET("/units", h.ListUnits)
	api.GET("/units/:id", h.GetUnit)
	api.POST("/units", h.CreateUnit)
}

// -- Citizen Handlers --

func (h *Handler) ListCitizens(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCitizens(c.Request().Context(), c.QueryParam("search"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetCitizen(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	citizen, err := h.svc.GetCitizen(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, citizen)
}

func (h *Handler) CreateCitizen(c echo.Context) error {
	var citizen Citizen
	if err := c.Bind(&citizen); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCitizen(c.Request().Context(), &citizen); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, citizen)
}

func (h *Handler) UpdateCitizen(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var citizen Citizen
	if err := c.Bind(&citizen); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	citizen.ID = id
	if err := h.svc.UpdateCitizen(c.Request().Context(), &citizen); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, citizen)
}

// -- Professional Handlers --

func (h *Handler) ListProfessionals(c echo.Context) error {
	pg := pagination.FromContext(c)
	var unitID *uuid.UUID
	if u := c.QueryParam("unitId"); u != "" {
		uid, err := uuid.Parse(u)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid unitId")
		}
		unitID = &uid
	}
	items, total, err := h.svc.ListProfessionals(c.Request().Context(), unitID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetProfessional(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProfessional(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProfessional(c echo.Context) error {
	var p Professional
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.IsActive = true
	if err := h.svc.CreateProfessional(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// -- HealthUnit Handlers --

func (h *Handler) ListUnits(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListUnits(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetUnit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	u, err := h.svc.GetUnit(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) CreateUnit(c echo.Context) error {
	var u HealthUnit
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u.IsActive = true
	if err := h.svc.CreateUnit(c.Request().Context(), &u); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}
