package reviews

import (
	"errors"
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
	api.GET("/reviews/doctor/:doctorId", h.ForDoctor)
	api.GET("/reviews/doctor/:doctorId/summary", h.Summary)

	patient := api.Group("/reviews", auth.RequireRole(session.RolePatient))
	patient.POST("", h.Submit)
}

func (h *Handler) Submit(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Submit(c.Request().Context(), u.ID, u.Name, &in)
	switch {
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotReviewable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ForDoctor(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	list, err := h.svc.ForDoctor(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) Summary(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	sum, err := h.svc.Summary(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, sum)
}
