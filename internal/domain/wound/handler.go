package wound

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
	api.GET("/patients/:id/wounds", h.Record)
	api.POST("/patients/:id/wounds", h.Add)
	api.POST("/visits/:sessionId/wounds/:woundId/assessment", h.DocumentAssessment)
}

func (h *Handler) Record(c echo.Context) error {
	result, err := h.svc.Record(c.Param("id"))
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
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) DocumentAssessment(c echo.Context) error {
	var req AssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.DocumentAssessment(c.Param("sessionId"), c.Param("woundId"), req)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		case errors.Is(err, ErrWoundNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
