package patients

import (
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
	api.POST("/patients/register", h.Register)

	patient := api.Group("/patients/me", auth.RequireRole(session.RolePatient))
	patient.GET("", h.Me)
	patient.PUT("", h.UpdateMe)

	staff := api.Group("/patients", auth.RequireRole(session.RoleDoctor, session.RoleAdmin))
	staff.GET("", h.List)
	staff.GET("/doctor/:doctorId", h.ByDoctor)
	staff.GET("/:id", h.Get)

	admin := api.Group("/patients", auth.RequireRole(session.RoleAdmin))
	admin.DELETE("/:id", h.Delete)
}

func (h *Handler) Register(c echo.Context) error {
	var r Registration
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Register(c.Request().Context(), &r)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, p.Public())
}

func (h *Handler) Me(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), u.ID)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p.Public())
}

func (h *Handler) UpdateMe(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateProfile(c.Request().Context(), u.ID, &p)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, updated.Public())
}

// List returns patients, narrowed by ?name=, ?email= or ?contact=.
func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.Search(c.Request().Context(), Query{
		Name:    c.QueryParam("name"),
		Email:   c.QueryParam("email"),
		Contact: c.QueryParam("contact"),
	})
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(publicList(list), pagination.FromContext(c)))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p.Public())
}

func (h *Handler) ByDoctor(c echo.Context) error {
	doctorID, err := strconv.Atoi(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if u.Role == session.RoleDoctor && u.ID != doctorID {
		return echo.NewHTTPError(http.StatusForbidden, "doctors may only list their own patients")
	}
	list, err := h.svc.ForDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, publicList(list))
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
