package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/auth"
	"github.com/hms/portal/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints. credentialMW guards the routes
// that take a password or reset token.
func (h *Handler) RegisterRoutes(api *echo.Group, credentialMW ...echo.MiddlewareFunc) {
	api.POST("/auth/:role/login", h.Login, credentialMW...)
	api.POST("/auth/logout", h.Logout)
	api.POST("/auth/forgot-password", h.ForgotPassword, credentialMW...)
	api.POST("/auth/reset-password", h.ResetPassword, credentialMW...)

	signedIn := api.Group("/auth", auth.RequireRole())
	signedIn.GET("/me", h.Me)
	signedIn.GET("/validate", h.Validate)
	signedIn.PUT("/password", h.ChangePassword)
}

type message struct {
	Message string `json:"message"`
}

// Login signs the browser in. The token stays server-side; only the user
// record is returned.
func (h *Handler) Login(c echo.Context) error {
	role, err := ParseRole(c.Param("role"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.Login(c.Request().Context(), role, &creds)
	if errors.Is(err, ErrLoginFailed) {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, sess.User)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context()); err != nil {
		return middleware.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Validate(c echo.Context) error {
	u, err := h.svc.Validate(c.Request().Context())
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var pc PasswordChange
	if err := c.Bind(&pc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.ChangePassword(c.Request().Context(), &pc)
	if errors.Is(err, ErrNoPasswordChange) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, message{"Password changed successfully"})
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ForgotPassword(c.Request().Context(), body.Email); err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, message{"If the address is registered, a reset token is on its way"})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var r PasswordReset
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ResetPassword(c.Request().Context(), &r); err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, message{"Password reset successfully"})
}
