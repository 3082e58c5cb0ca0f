package pharmacy

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
	api.GET("/medications", h.ListMedications)
	api.GET("/medications/low-stock", h.LowStock)
	api.GET("/medications/:id", h.GetMedication)
	api.GET("/medications/:id/stock", h.ListStock)
	api.POST("/medications", h.CreateMedication)
	api.POST("/medications/stock", h.CreateStock)
	api.PUT("/medications/stock/:id", h.UpdateStock)

	api.GET("/prescriptions", h.ListPrescriptions)
	api.GET("/prescriptions/:id", h.GetPrescription)
	api.GET("/prescriptions/:id/dispensings", h.ListDispensings)
	api.POST("/prescriptions", h.CreatePrescription)
	api.PUT("/prescriptions/:id", h.UpdatePrescription)
	api.POST("/prescriptions/dispense", h.Dispense)
}

func (h *Handler) ListMedications(c echo.Context) error {
	var unitID *uuid.UUID
	if v := c.QueryParam("unitId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unitId must be a valid uuid")
		}
		unitID = &id
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMedications(c.Request().Context(), c.QueryParam("search"), unitID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMedication(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedication(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListStock(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Stock{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateStock(c echo.Context) error {
	var st Stock
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateStock(c.Request().Context(), &st); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *Handler) UpdateStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd StockUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	st, err := h.svc.UpdateStock(c.Request().Context(), id, &upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) LowStock(c echo.Context) error {
	var unitID *uuid.UUID
	if v := c.QueryParam("unitId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unitId must be a valid uuid")
		}
		unitID = &id
	}
	rows, err := h.svc.LowStock(c.Request().Context(), unitID)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []*LowStockRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	var f PrescriptionFilter
	if v := c.QueryParam("citizenId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "citizenId must be a valid uuid")
		}
		f.CitizenID = &id
	}
	if v := c.QueryParam("consultationId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "consultationId must be a valid uuid")
		}
		f.ConsultationID = &id
	}
	f.Status = c.QueryParam("status")

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPrescriptions(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetPrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPrescription(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	var p Prescription
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePrescription(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd PrescriptionUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdatePrescription(c.Request().Context(), id, &upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Dispense(c echo.Context) error {
	var req DispenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Dispense(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDispensings(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListDispensings(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Dispensing{}
	}
	return c.JSON(http.StatusOK, items)
}
