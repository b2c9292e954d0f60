package handler

import (
	"net/http"

	"github.com/fanexp/vip-tickets/internal/dto"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/labstack/echo/v4"
)

// AdminHandler bundles the staff-only operations: tour management,
// ticket regeneration and the stats dashboard.
type AdminHandler struct {
	tours   service.TourService
	tickets service.TicketService
}

func NewAdminHandler(tours service.TourService, tickets service.TicketService) *AdminHandler {
	return &AdminHandler{tours: tours, tickets: tickets}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/tours", h.CreateTour)
	g.PATCH("/tours/:id", h.UpdateTour)
	g.POST("/tours/:id/toggle", h.ToggleTour)
	g.DELETE("/tours/:id", h.DeleteTour)
	g.GET("/selections/:id", h.SelectionInfo)
	g.POST("/selections/:id/regenerate", h.RegenerateTicket)
	g.GET("/stats", h.Stats)
}

// SelectionInfo shows one selection with its fan and tour, for support
// staff chasing a ticket problem.
func (h *AdminHandler) SelectionInfo(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	selection, err := h.tickets.Info(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	resp := dto.ToVerifyTicketResponse(selection)
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CreateTour(c echo.Context) error {
	var req dto.CreateTourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tour, err := h.tours.Create(c.Request().Context(), service.TourInput{
		Title:       req.Title,
		Date:        req.Date,
		City:        req.City,
		Venue:       req.Venue,
		Artists:     req.Artists,
		TicketLimit: req.TicketLimit,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToTourResponse(tour))
}

func (h *AdminHandler) UpdateTour(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tour, err := h.tours.Update(c.Request().Context(), id, service.TourUpdate{
		Title:       req.Title,
		Date:        req.Date,
		City:        req.City,
		Venue:       req.Venue,
		Artists:     req.Artists,
		TicketLimit: req.TicketLimit,
		IsActive:    req.IsActive,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToTourResponse(tour))
}

func (h *AdminHandler) ToggleTour(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	tour, err := h.tours.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToTourResponse(tour))
}

func (h *AdminHandler) DeleteTour(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tours.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) RegenerateTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.tickets.Regenerate(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.tours.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, stats)
}
