package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/session"
)

// RequireRole returns middleware that admits a signed-in user holding one of
// roles. With no roles any signed-in user is admitted.
func RequireRole(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := UserFromContext(c.Request().Context())
			if u == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, r := range roles {
				if u.Role == r {
					return next(c)
				}
			}
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(names, " or ")))
		}
	}
}

// CurrentUser returns the signed-in user for c or a 401 error.
func CurrentUser(c echo.Context) (*session.User, error) {
	u := UserFromContext(c.Request().Context())
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return u, nil
}
