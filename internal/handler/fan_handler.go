package handler

import (
	"net/http"

	"github.com/fanexp/vip-tickets/internal/dto"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/labstack/echo/v4"
)

type FanHandler struct {
	svc service.FanService
}

func NewFanHandler(svc service.FanService) *FanHandler {
	return &FanHandler{svc: svc}
}

func (h *FanHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Register)
	g.GET("/:id", h.Get)
	g.GET("/by-code/:code", h.GetByCode)
	g.GET("/lookup", h.Lookup)
	g.PATCH("/:id", h.Update)
	g.GET("/:id/selections", h.ListSelections)
	g.POST("/:id/selections", h.AddSelection)
	g.POST("/:id/selections/bulk", h.AddSelectionsBulk)
	g.DELETE("/:id/selections/:selectionID", h.RemoveSelection)
}

func (h *FanHandler) Register(c echo.Context) error {
	var req dto.RegisterFanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fan, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToFanResponse(fan))
}

func (h *FanHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	fan, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFanResponse(fan))
}

func (h *FanHandler) GetByCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "registration code is required")
	}

	fan, err := h.svc.GetByCode(c.Request().Context(), code)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFanResponse(fan))
}

// Lookup finds a fan by email, for returning fans who lost their code.
func (h *FanHandler) Lookup(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email query parameter is required")
	}

	fan, err := h.svc.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFanResponse(fan))
}

func (h *FanHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateFanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fan, err := h.svc.Update(c.Request().Context(), id, service.FanUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFanResponse(fan))
}

func (h *FanHandler) ListSelections(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	selections, err := h.svc.ListSelections(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToSelectionResponses(selections))
}

func (h *FanHandler) AddSelection(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddSelectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	selection, err := h.svc.AddSelection(c.Request().Context(), id, req.TourID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToSelectionResponse(selection))
}

func (h *FanHandler) AddSelectionsBulk(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddSelectionsBulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	selections, err := h.svc.AddSelectionsBulk(c.Request().Context(), id, req.TourIDs)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToSelectionResponses(selections))
}

func (h *FanHandler) RemoveSelection(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	selectionID, err := parseID(c, "selectionID")
	if err != nil {
		return err
	}

	if err := h.svc.RemoveSelection(c.Request().Context(), id, selectionID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
