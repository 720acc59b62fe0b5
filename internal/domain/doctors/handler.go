package doctors

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
	api.GET("/specializations", h.Specializations)

	readGroup := api.Group("/doctors", auth.RequireRole())
	readGroup.GET("", h.List)
	readGroup.GET("/:id", h.Get)
	readGroup.GET("/specialization/:spId", h.BySpecialization)

	staff := api.Group("/doctors", auth.RequireRole(session.RoleDoctor, session.RoleAdmin))
	staff.GET("/:id/stats", h.Stats)
	staff.PUT("/:id", h.Update)

	admin := api.Group("/doctors", auth.RequireRole(session.RoleAdmin))
	admin.POST("", h.Create)
	admin.DELETE("/:id", h.Delete)
}

// List returns doctors, narrowed by ?q= (name or e-mail) and ?specialtyId=.
func (h *Handler) List(c echo.Context) error {
	spID, _ := strconv.Atoi(c.QueryParam("specialtyId"))
	list, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), spID)
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
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, d.Public())
}

func (h *Handler) BySpecialization(c echo.Context) error {
	spID, err := strconv.Atoi(c.Param("spId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid specialization id")
	}
	list, err := h.svc.BySpecialization(c.Request().Context(), spID)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, publicList(list))
}

func (h *Handler) Specializations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Specializations(c.Request().Context()))
}

// selfOrAdmin rejects a doctor acting on another doctor's record.
func selfOrAdmin(c echo.Context, id int) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if u.Role == session.RoleDoctor && u.ID != id {
		return echo.NewHTTPError(http.StatusForbidden, "doctors may only access their own record")
	}
	return nil
}

func (h *Handler) Stats(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := selfOrAdmin(c, id); err != nil {
		return err
	}
	st, err := h.svc.Stats(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Create(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.Add(c.Request().Context(), &d)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, created.Public())
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := selfOrAdmin(c, id); err != nil {
		return err
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.Update(c.Request().Context(), id, &d)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, updated.Public())
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
