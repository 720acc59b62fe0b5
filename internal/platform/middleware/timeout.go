package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// TimeoutConfig bounds how long a portal request may run. Timeout should
// exceed the backend client's per-call timeout so a slow backend surfaces
// as the handler's own 502.
type TimeoutConfig struct {
	Timeout time.Duration
	// Skip lists path prefixes that keep the caller's context.
	Skip   []string
	Logger zerolog.Logger
}

// RequestTimeout puts a deadline on each request's context. A handler still
// running at the deadline is abandoned and the browser gets 504.
func RequestTimeout(cfg TimeoutConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipped(c.Request().URL.Path, cfg.Skip) {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- fmt.Errorf("handler panic: %v", r)
					}
				}()
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return ctx.Err()
				}
				rid, _ := c.Get("request_id").(string)
				cfg.Logger.Warn().
					Str("request_id", rid).
					Str("path", c.Path()).
					Dur("timeout", cfg.Timeout).
					Msg("request abandoned at deadline")
				if c.Response().Committed {
					return nil
				}
				return echo.NewHTTPError(http.StatusGatewayTimeout, "the hospital backend took too long to answer")
			}
		}
	}
}

func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
