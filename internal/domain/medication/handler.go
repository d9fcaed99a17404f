package medication

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/medications", h.List)
	api.POST("/patients/:id/medications", h.Add)
	api.POST("/patients/:id/medications/:medId/discontinue", h.Discontinue)
	api.POST("/visits/:sessionId/medications/validate", h.Validate)
}

func (h *Handler) List(c echo.Context) error {
	result, err := h.svc.List(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Add(c echo.Context) error {
	var req AddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.Add(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, store.ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	status := http.StatusCreated
	if result.Status == "blocked" {
		status = http.StatusConflict
	}
	return c.JSON(status, result)
}

func (h *Handler) Discontinue(c echo.Context) error {
	var req DiscontinueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.Discontinue(c.Param("id"), c.Param("medId"), req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrMedicationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Validate(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.Validate(c.Param("sessionId"), req.MedicationIDs)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
