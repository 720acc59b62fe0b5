// Package auth binds a portal browser to its backend session. A cookie
// carries an opaque session id, the session store maps it to the backend
// bearer token, and the signed-in user rides on the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/platform/session"
)

type contextKey string

const UserKey contextKey = "portal_user"

type SessionConfig struct {
	Store      session.Store
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     zerolog.Logger
	// Now is overridable for tests.
	Now func() time.Time
}

// SessionMiddleware scopes every request to a browser session. A missing or
// malformed cookie gets a fresh id. A stored session whose JWT has expired
// is cleared before the handler runs.
func SessionMiddleware(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "hms_session"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = session.NewID()
				c.SetCookie(newCookie(cfg, id))
			}

			ctx := session.WithID(c.Request().Context(), id)
			s, err := cfg.Store.Load(ctx)
			switch {
			case err == nil && s.Expired(cfg.Now()):
				if cerr := cfg.Store.Clear(ctx); cerr != nil {
					cfg.Logger.Warn().Err(cerr).Msg("failed to clear expired session")
				}
			case err == nil && s.User != nil:
				ctx = WithUser(ctx, s.User)
			case err != nil && !errors.Is(err, session.ErrNoSession):
				cfg.Logger.Warn().Err(err).Msg("session store unavailable")
			}

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func newCookie(cfg SessionConfig, id string) *http.Cookie {
	ck := &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.TTL > 0 {
		ck.MaxAge = int(cfg.TTL.Seconds())
	}
	return ck
}

// WithUser returns ctx carrying u as the signed-in user.
func WithUser(ctx context.Context, u *session.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

// UserFromContext returns the signed-in user or nil.
func UserFromContext(ctx context.Context) *session.User {
	u, _ := ctx.Value(UserKey).(*session.User)
	return u
}
