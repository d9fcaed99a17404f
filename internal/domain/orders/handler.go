package orders

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homechart/homechart/internal/platform/store"
	"github.com/homechart/homechart/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/orders", h.CreateOrder)
	api.POST("/patients/:id/coordination-notes", h.AddNote)
	api.GET("/patients/:id/coordination-notes", h.GetNotes)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.CreateOrder(c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrInvalidOrderType):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) AddNote(c echo.Context) error {
	var req AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.svc.AddNote(c.Param("id"), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetNotes(c echo.Context) error {
	page := pagination.FromContext(c)
	result, err := h.svc.GetNotes(c.Param("id"), c.QueryParam("type"), page.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, result)
}
