package handler

import (
	"net/http"
	"path/filepath"

	"github.com/fanexp/vip-tickets/internal/dto"
	"github.com/fanexp/vip-tickets/internal/ident"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/labstack/echo/v4"
)

type TicketHandler struct {
	svc service.TicketService
}

func NewTicketHandler(svc service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

// RegisterFanRoutes hangs the issuance endpoints off the fan group,
// RegisterRoutes the ticket-id based ones off the tickets group.
func (h *TicketHandler) RegisterFanRoutes(g *echo.Group) {
	g.POST("/:id/tickets", h.IssueAll)
	g.POST("/:id/tickets/:selectionID", h.Issue)
	g.GET("/:id/tickets", h.Downloads)
}

func (h *TicketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/download/:ticketID", h.Download)
	g.GET("/verify/:ticketID", h.Verify)
}

func (h *TicketHandler) Issue(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	selectionID, err := parseID(c, "selectionID")
	if err != nil {
		return err
	}

	result, err := h.svc.Issue(c.Request().Context(), fanID, selectionID)
	if err != nil {
		return httpError(err)
	}

	status := http.StatusCreated
	if result.AlreadyGenerated {
		status = http.StatusOK
	}
	return c.JSON(status, result)
}

func (h *TicketHandler) IssueAll(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	results, err := h.svc.IssueAllForFan(c.Request().Context(), fanID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, results)
}

func (h *TicketHandler) Downloads(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	downloads, err := h.svc.FanDownloads(c.Request().Context(), fanID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, downloads)
}

func (h *TicketHandler) Download(c echo.Context) error {
	ticketID := c.Param("ticketID")
	if !ident.ValidTicketID(ticketID) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ticket id")
	}

	path, err := h.svc.DownloadPath(c.Request().Context(), ticketID)
	if err != nil {
		return httpError(err)
	}

	return c.Attachment(path, filepath.Base(path))
}

func (h *TicketHandler) Verify(c echo.Context) error {
	ticketID := c.Param("ticketID")
	if ticketID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ticket id is required")
	}

	selection, err := h.svc.Verify(c.Request().Context(), ticketID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToVerifyTicketResponse(selection))
}
