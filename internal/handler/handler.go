package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// httpError maps service sentinel errors onto HTTP status codes.
// Unknown errors surface as 500s through the central error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrFanNotFound),
		errors.Is(err, service.ErrTourNotFound),
		errors.Is(err, service.ErrSelectionNotFound),
		errors.Is(err, service.ErrConsentNotFound),
		errors.Is(err, service.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadySelected),
		errors.Is(err, service.ErrConsentExists),
		errors.Is(err, service.ErrHasTicket),
		errors.Is(err, service.ErrTourHasTickets):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrTourUnavailable),
		errors.Is(err, service.ErrSelectionLimit),
		errors.Is(err, service.ErrConsentRequired),
		errors.Is(err, service.ErrConsentIncomplete),
		errors.Is(err, service.ErrNoSelections),
		errors.Is(err, service.ErrSelectionClosed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTicketFileMissing):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
