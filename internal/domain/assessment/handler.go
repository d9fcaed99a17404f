package assessment

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
	api.GET("/assessments/categories", h.Categories)
	api.GET("/patients/:id/assessments/:category/questions", h.Questions)
	api.POST("/visits/:sessionId/assessments/:category", h.Submit)
}

func (h *Handler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": Categories(),
	})
}

func (h *Handler) Questions(c echo.Context) error {
	result, err := h.svc.Questions(c.Param("id"), c.Param("category"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrInvalidCategory):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.Submit(c.Param("sessionId"), c.Param("category"), req.Responses)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
