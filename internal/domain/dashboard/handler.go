package dashboard

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/auth"
	"github.com/hms/portal/internal/platform/middleware"
	"github.com/hms/portal/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/patient", h.Patient, auth.RequireRole(session.RolePatient))
	api.GET("/dashboard/doctor", h.Doctor, auth.RequireRole(session.RoleDoctor, session.RoleAdmin))
	api.GET("/dashboard/admin", h.Admin, auth.RequireRole(session.RoleAdmin))
}

func (h *Handler) Patient(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	v, err := h.svc.Patient(c.Request().Context(), u.ID)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

// Doctor serves the signed-in doctor's dashboard; an admin picks the
// doctor with ?doctorId=.
func (h *Handler) Doctor(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	doctorID := u.ID
	if u.Role == session.RoleAdmin {
		doctorID, err = strconv.Atoi(c.QueryParam("doctorId"))
		if err != nil || doctorID <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "doctorId is required")
		}
	}
	v, err := h.svc.Doctor(c.Request().Context(), doctorID)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Admin(c echo.Context) error {
	v, err := h.svc.Admin(c.Request().Context())
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}
