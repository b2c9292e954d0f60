package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fanexp/vip-tickets/internal/dto"
	"github.com/fanexp/vip-tickets/internal/ident"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/labstack/echo/v4"
)

// Photo ID uploads are capped at 5 MB.
const maxPhotoIDSize = 5 << 20

var allowedPhotoIDExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

type ConsentHandler struct {
	svc       service.ConsentService
	uploadDir string
}

func NewConsentHandler(svc service.ConsentService, uploadDir string) *ConsentHandler {
	return &ConsentHandler{svc: svc, uploadDir: uploadDir}
}

func (h *ConsentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/:id/consent", h.Submit)
	g.GET("/:id/consent", h.Get)
	g.PATCH("/:id/consent", h.Update)
	g.GET("/:id/consent/status", h.Status)
	g.POST("/:id/consent/photo-id", h.UploadPhotoID)
	g.DELETE("/:id/consent", h.Delete)
}

// Status is the lightweight poll the frontend uses to decide whether
// to show the ticket download screen.
func (h *ConsentHandler) Status(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	consent, err := h.svc.Get(c.Request().Context(), fanID)
	if err != nil {
		if errors.Is(err, service.ErrConsentNotFound) {
			return c.JSON(http.StatusOK, map[string]bool{
				"submitted":         false,
				"complete":          false,
				"ticket_unlocked":   false,
				"photo_id_uploaded": false,
			})
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"submitted":         true,
		"complete":          consent.IsComplete(),
		"ticket_unlocked":   consent.TicketUnlocked,
		"photo_id_uploaded": consent.PhotoIDUploaded,
	})
}

func (h *ConsentHandler) Submit(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitConsentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	consent, err := h.svc.Submit(c.Request().Context(), service.ConsentInput{
		FanID:             fanID,
		AgreedToTerms:     req.AgreedToTerms,
		AgreedToPrivacy:   req.AgreedToPrivacy,
		AgreedToMarketing: req.AgreedToMarketing,
		AgeVerified:       req.AgeVerified,
		DateOfBirth:       req.DateOfBirth,
		ConfirmedName:     req.ConfirmedName,
		ConfirmedEmail:    req.ConfirmedEmail,
		ConfirmedPhone:    req.ConfirmedPhone,
		SignatureName:     req.SignatureName,
		SignatureData:     req.SignatureData,
	}, c.RealIP())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToConsentResponse(consent))
}

func (h *ConsentHandler) Get(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	consent, err := h.svc.Get(c.Request().Context(), fanID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToConsentResponse(consent))
}

func (h *ConsentHandler) Update(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateConsentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	consent, err := h.svc.Update(c.Request().Context(), fanID, service.ConsentUpdate{
		AgreedToMarketing: req.AgreedToMarketing,
		ConfirmedName:     req.ConfirmedName,
		ConfirmedEmail:    req.ConfirmedEmail,
		ConfirmedPhone:    req.ConfirmedPhone,
		SignatureName:     req.SignatureName,
		SignatureData:     req.SignatureData,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToConsentResponse(consent))
}

// UploadPhotoID stores an identity document next to the consent record.
// The original filename is sanitized before it touches the filesystem.
func (h *ConsentHandler) UploadPhotoID(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if file.Size > maxPhotoIDSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds the 5 MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoIDExts[ext] {
		return echo.NewHTTPError(http.StatusBadRequest, "file type not allowed, use jpg, png or pdf")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer src.Close()

	filename := fmt.Sprintf("photo_id_%d_%s", fanID, ident.SanitizeFilename(file.Filename))
	path := filepath.Join(h.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store uploaded file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store uploaded file")
	}

	consent, err := h.svc.AttachPhotoID(c.Request().Context(), fanID, path)
	if err != nil {
		os.Remove(path)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToConsentResponse(consent))
}

func (h *ConsentHandler) Delete(c echo.Context) error {
	fanID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), fanID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
