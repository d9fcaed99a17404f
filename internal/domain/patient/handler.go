package patient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/homechart/homechart/internal/platform/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/search", h.Search)
	api.GET("/patients/:id", h.Get)
	api.GET("/patients/:id/demographics", h.GetDemographics)
	api.POST("/patients/:id/demographics", h.UpdateDemographics)
	api.GET("/patients/:id/care-plan", h.GetCarePlan)
	api.GET("/patients/:id/calendar", h.GetVisitCalendar)
}

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	searchType := c.QueryParam("type")
	if searchType == "" {
		searchType = "all"
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	results := h.svc.Search(query, searchType, c.QueryParam("status"), limit)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetDemographics(c echo.Context) error {
	view, err := h.svc.GetDemographics(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateDemographics(c echo.Context) error {
	var req UpdateDemographicsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cr, err := h.svc.UpdateDemographics(c.Param("id"), req.Field, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrUnknownField):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, cr)
}

func (h *Handler) GetCarePlan(c echo.Context) error {
	view, err := h.svc.GetCarePlan(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetVisitCalendar(c echo.Context) error {
	cal, err := h.svc.GetVisitCalendar(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, cal)
}
