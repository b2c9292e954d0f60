package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const adminKeyHeader = "X-Admin-Key"

// AdminAuth guards the admin routes with a shared key carried in the
// X-Admin-Key header. An empty configured key disables the admin API
// entirely rather than leaving it open.
func AdminAuth(key string) echo.MiddlewareFunc {
	if key == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "admin API is not configured")
			}
		}
	}

	return echomw.KeyAuthWithConfig(echomw.KeyAuthConfig{
		KeyLookup: "header:" + adminKeyHeader,
		Validator: func(candidate string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin key")
		},
	})
}
