package prescriptions

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
	signedIn := api.Group("/prescriptions", auth.RequireRole())
	signedIn.GET("/mine", h.Mine)
	signedIn.GET("/:id", h.Get)

	staff := api.Group("/prescriptions", auth.RequireRole(session.RoleDoctor, session.RoleAdmin))
	staff.GET("", h.List)
	staff.GET("/patient/:patientId", h.ByPatient)
	staff.GET("/appointment/:appointmentId", h.ByAppointment)
	staff.POST("/:id/send-email", h.SendEmail)
	staff.PUT("/:id", h.Update)
	staff.DELETE("/:id", h.Delete)

	doctor := api.Group("/prescriptions", auth.RequireRole(session.RoleDoctor))
	doctor.POST("", h.Create)
}

func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// prescriber returns the doctor id ownership is checked against; admins
// act on any prescription.
func prescriber(u *session.User) int {
	if u.Role == session.RoleDoctor {
		return u.ID
	}
	return 0
}

func httpError(err error) error {
	if errors.Is(err, ErrNotPrescriber) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return middleware.HTTPError(err)
}

// Mine lists the caller's prescriptions: received for a patient, written
// for a doctor.
func (h *Handler) Mine(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	var list []Prescription
	switch u.Role {
	case session.RolePatient:
		list, err = h.svc.ForPatient(ctx, u.ID)
	case session.RoleDoctor:
		list, err = h.svc.ForDoctor(ctx, u.ID)
	default:
		list, err = h.svc.List(ctx)
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(list, pagination.FromContext(c)))
}

func (h *Handler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(list, pagination.FromContext(c)))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	if u.Role == session.RolePatient && p.PatientID != u.ID {
		return echo.NewHTTPError(http.StatusForbidden, "prescription belongs to another patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ByPatient(c echo.Context) error {
	id, err := intParam(c, "patientId")
	if err != nil {
		return err
	}
	list, err := h.svc.ForPatient(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ByAppointment(c echo.Context) error {
	id, err := intParam(c, "appointmentId")
	if err != nil {
		return err
	}
	list, err := h.svc.ForAppointment(c.Request().Context(), id)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Create writes a prescription; {"sendEmail":true} also mails it.
func (h *Handler) Create(c echo.Context) error {
	var d Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	saved, err := h.svc.Write(c.Request().Context(), &d)
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var d Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Revise(c.Request().Context(), id, prescriber(u), &d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id, prescriber(u)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SendEmail(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.SendEmail(c.Request().Context(), id); err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Prescription email sent"})
}
