package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/apiclient"
)

// HTTPError converts a service or backend error into the echo error a
// portal handler returns. Backend messages pass through verbatim.
func HTTPError(err error) *echo.HTTPError {
	code, msg := apiclient.Status(err)
	return echo.NewHTTPError(code, msg)
}
