package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fanexp/vip-tickets/internal/dto"
)

// ErrorHandler is the central echo error handler. Every error that
// escapes a handler is flattened into a dto.ErrorResponse body so
// clients always see the same JSON shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		default:
			msg = fmt.Sprintf("%v", m)
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
