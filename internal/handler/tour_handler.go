package handler

import (
	"net/http"
	"strconv"

	"github.com/fanexp/vip-tickets/internal/dto"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/labstack/echo/v4"
)

type TourHandler struct {
	svc service.TourService
}

func NewTourHandler(svc service.TourService) *TourHandler {
	return &TourHandler{svc: svc}
}

func (h *TourHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/available", h.Available)
	g.GET("/:id", h.Get)
}

func (h *TourHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	tours, total, err := h.svc.List(c.Request().Context(), activeOnly, offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToTourListResponse(tours, total, offset, limit))
}

func (h *TourHandler) Available(c echo.Context) error {
	tours, err := h.svc.Available(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.TourResponse, 0, len(tours))
	for i := range tours {
		resp = append(resp, dto.ToTourResponse(&tours[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TourHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	tour, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToTourResponse(tour))
}
