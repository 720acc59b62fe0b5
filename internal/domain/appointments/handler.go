package appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/auth"
	"github.com/hms/portal/internal/platform/middleware"
	"github.com/hms/portal/internal/platform/session"
	"github.com/hms/portal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	signedIn := api.Group("/appointments", auth.RequireRole())
	signedIn.GET("/mine", h.ListMine)
	signedIn.GET("/check", h.CheckAvailability)
	signedIn.GET("/:id", h.Get)

	patient := api.Group("/appointments", auth.RequireRole(session.RolePatient))
	patient.POST("/:id/cancel", h.Cancel)

	staff := api.Group("/appointments", auth.RequireRole(session.RoleDoctor, session.RoleAdmin))
	staff.PUT("/:id/status", h.UpdateStatus)

	admin := api.Group("/appointments", auth.RequireRole(session.RoleAdmin))
	admin.GET("", h.List)
	admin.DELETE("/:id", h.Delete)
}

// List returns all appointments, optionally narrowed by ?status= or ?date=.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		list []Appointment
		err  error
	)
	switch {
	case c.QueryParam("status") != "":
		list, err = h.svc.ByStatus(ctx, c.QueryParam("status"))
	case c.QueryParam("date") != "":
		list, err = h.svc.ByDate(ctx, c.QueryParam("date"))
	default:
		list, err = h.svc.List(ctx)
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(list, pagination.FromContext(c)))
}

// ListMine returns the signed-in patient's or doctor's appointments.
func (h *Handler) ListMine(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	var list []Appointment
	switch u.Role {
	case session.RolePatient:
		list, err = h.svc.ForPatient(ctx, u.ID)
	case session.RoleDoctor:
		if date := c.QueryParam("date"); date != "" {
			list, err = h.svc.ForDoctorOnDate(ctx, u.ID, date)
		} else {
			list, err = h.svc.ForDoctor(ctx, u.ID)
		}
	default:
		list, err = h.svc.List(ctx)
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(list, pagination.FromContext(c)))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	status := c.QueryParam("status")
	if status == "" {
		var req statusRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = req.Status
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), u.ID, id)
	if errors.Is(err, ErrNotOwner) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	if errors.Is(err, ErrNotCancellable) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return middleware.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	doctorID, err := strconv.Atoi(c.QueryParam("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctorId")
	}
	ok, err := h.svc.CheckAvailability(c.Request().Context(), doctorID, c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"available": ok})
}
