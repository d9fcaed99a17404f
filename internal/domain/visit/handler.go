package visit

import (
	"errors"
	"net/http"
	"strconv"

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
	api.POST("/visits", h.Start)
	api.GET("/visits/:sessionId", h.GetSession)
	api.POST("/visits/:sessionId/complete", h.Complete)
	api.POST("/visits/:sessionId/vitals", h.RecordVitals)
	api.GET("/patients/:id/vitals/trends", h.GetTrends)
}

func (h *Handler) Start(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.Start(req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrInvalidServiceCode):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetSession(c echo.Context) error {
	sess, err := h.svc.GetSession(c.Param("sessionId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) Complete(c echo.Context) error {
	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Complete(c.Param("sessionId"), req)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found or already completed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RecordVitals(c echo.Context) error {
	var req RecordVitalsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.RecordVitals(c.Param("sessionId"), req.Vitals)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetTrends(c echo.Context) error {
	vitalType := c.QueryParam("type")
	if vitalType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	trends, err := h.svc.GetTrends(c.Param("id"), vitalType, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, trends)
}
