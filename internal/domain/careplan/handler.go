package careplan

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homechart/homechart/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/interventions", h.ActiveInterventions)
	api.POST("/visits/:sessionId/interventions", h.DocumentIntervention)
	api.POST("/visits/:sessionId/goals/:goalId", h.UpdateGoalStatus)
}

func (h *Handler) ActiveInterventions(c echo.Context) error {
	result, err := h.svc.ActiveInterventions(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) DocumentIntervention(c echo.Context) error {
	var req DocumentInterventionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.DocumentIntervention(c.Param("sessionId"), req)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) UpdateGoalStatus(c echo.Context) error {
	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.UpdateGoalStatus(c.Param("sessionId"), c.Param("goalId"), req)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
