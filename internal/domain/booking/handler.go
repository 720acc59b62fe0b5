package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/domain/doctors"
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
	g := api.Group("/booking", auth.RequireRole())
	g.GET("/doctors", h.Doctors)
	g.GET("/slots", h.Slots)

	patient := api.Group("/booking", auth.RequireRole(session.RolePatient))
	patient.POST("", h.Book)
}

type doctorOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Doctors returns the doctor selector options.
func (h *Handler) Doctors(c echo.Context) error {
	list, err := h.svc.Doctors(c.Request().Context())
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, options(list))
}

func options(list []doctors.Doctor) []doctorOption {
	out := make([]doctorOption, len(list))
	for i := range list {
		out[i] = doctorOption{ID: list[i].ID, Label: list[i].Label()}
	}
	return out
}

// slotsResponse echoes the caller's tag so a browser can drop responses to
// selections it has since replaced.
type slotsResponse struct {
	Tag string `json:"tag,omitempty"`
	Result
}

func (h *Handler) Slots(c echo.Context) error {
	doctorID, _ := strconv.Atoi(c.QueryParam("doctorId"))
	res, err := h.svc.Slots(c.Request().Context(), doctorID, c.QueryParam("date"))
	if errors.Is(err, ErrIncompleteSelection) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusOK, slotsResponse{Tag: c.QueryParam("tag"), Result: res})
}

// Book re-checks the chosen slot against a fresh computation before posting.
func (h *Handler) Book(c echo.Context) error {
	u, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var known []TimeSlot
	if req.DoctorID > 0 && req.Date != "" {
		res, err := h.svc.Slots(ctx, req.DoctorID, req.Date)
		if err != nil && !errors.Is(err, ErrIncompleteSelection) {
			return middleware.HTTPError(err)
		}
		if err == nil && !res.Degraded() {
			known = res.Slots
		}
	}

	a, err := h.svc.Book(ctx, u.ID, req, known)
	if errors.Is(err, ErrSlotBooked) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return middleware.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, a)
}
