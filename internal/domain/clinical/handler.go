package clinical

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
	api.GET("/consultations", h.ListConsultations)
	api.GET("/consultations/:id", h.GetConsultation)
	api.POST("/consultations", h.CreateConsultation)

	api.GET("/exams", h.ListExams)
	api.GET("/exams/:id", h.GetExam)
	api.POST("/exams", h.CreateExam)
	api.PUT("/exams/:id", h.UpdateExam)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	citizenID, err := uuid.Parse(c.QueryParam("citizenId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "citizenId must be a valid uuid")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListConsultations(c.Request().Context(), citizenID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cons, err := h.svc.GetConsultation(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cons)
}

func (h *Handler) CreateConsultation(c echo.Context) error {
	var cons Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateConsultation(c.Request().Context(), &cons); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cons)
}

func (h *Handler) ListExams(c echo.Context) error {
	citizenID, err := uuid.Parse(c.QueryParam("citizenId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "citizenId must be a valid uuid")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListExams(c.Request().Context(), citizenID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	exam, err := h.svc.GetExam(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exam)
}

func (h *Handler) CreateExam(c echo.Context) error {
	var exam Exam
	if err := c.Bind(&exam); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateExam(c.Request().Context(), &exam); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, exam)
}

func (h *Handler) UpdateExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd ExamUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	exam, err := h.svc.UpdateExam(c.Request().Context(), id, &upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exam)
}
