package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts POST /chat. The assistant is public; mw is applied
// to the route only (a tighter rate limit).
func (h *Handler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	api.POST("/chat", h.Ask, mw...)
}

func (h *Handler) Ask(c echo.Context) error {
	var in Prompt
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reply, err := h.svc.Ask(c.Request().Context(), middleware.SanitizeString(in.Prompt))
	switch {
	case errors.Is(err, ErrEmptyPrompt), errors.Is(err, ErrPromptTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apiclient.IsUnauthorized(err):
		return middleware.HTTPError(err)
	case err != nil:
		return echo.NewHTTPError(http.StatusBadGateway, FailureReply)
	}
	return c.JSON(http.StatusOK, Answer{Reply: reply})
}
