package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/hms/portal/internal/config"
	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/booking"
	"github.com/hms/portal/internal/domain/chat"
	"github.com/hms/portal/internal/domain/dashboard"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/domain/identity"
	"github.com/hms/portal/internal/domain/patients"
	"github.com/hms/portal/internal/domain/prescriptions"
	"github.com/hms/portal/internal/domain/reviews"
	"github.com/hms/portal/internal/platform/auth"
	"github.com/hms/portal/internal/platform/middleware"
	"github.com/hms/portal/internal/platform/session"
)

const version = "0.1.0"

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the browser-facing portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServer(cmd.Context())
		},
	}
}

// serverStore picks the per-browser session store. The file store holds a
// single session and so only suits a one-user development server.
func (a *app) serverStore(ctx context.Context) (session.Store, func(), error) {
	switch a.cfg.SessionStore {
	case config.StoreRedis:
		client, err := session.DialRedis(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, a.cfg.SessionTTL), func() { client.Close() }, nil
	case config.StoreFile:
		if a.cfg.IsProduction() {
			return nil, nil, fmt.Errorf("SESSION_STORE %q cannot serve several browsers; use %q or %q",
				config.StoreFile, config.StoreRedis, config.StoreMemory)
		}
		a.logger.Warn().Str("file", a.cfg.SessionFile).Msg("file session store shares one session across all browsers")
		return session.NewFileStore(a.cfg.SessionFile), func() {}, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}

func (a *app) runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, closeStore, err := a.serverStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	e := a.newServer(store)

	go func() {
		addr := ":" + a.cfg.Port
		a.logger.Info().Str("addr", addr).Str("backend", a.cfg.APIBaseURL).Msg("starting portal server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info().Msg("shutting down portal server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.logger.Info().Msg("portal server stopped")
	return nil
}

// newServer builds the echo instance with the middleware chain and every
// portal area mounted under /api.
func (a *app) newServer(store session.Store) *echo.Echo {
	p := a.wire(store)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	e.Use(middleware.SecurityHeaders(a.cfg.IsProduction()))
	e.Use(echomw.BodyLimit("64K"))
	e.Use(middleware.Sanitize(a.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
	})

	rateCfg := middleware.DefaultRateLimitConfig()
	if a.cfg.RateLimitRPS > 0 {
		rateCfg.RequestsPerSecond = a.cfg.RateLimitRPS
		rateCfg.BurstSize = a.cfg.RateLimitBurst
	}

	api := e.Group("/api",
		middleware.RateLimit(rateCfg),
		middleware.RequestTimeout(middleware.TimeoutConfig{
			Timeout: a.cfg.RequestTimeout + 5*time.Second,
			Logger:  a.logger,
		}),
		auth.SessionMiddleware(auth.SessionConfig{
			Store:      store,
			CookieName: a.cfg.SessionCookie,
			TTL:        a.cfg.SessionTTL,
			Secure:     a.cfg.IsProduction(),
			Logger:     a.logger,
		}),
		middleware.Audit(a.logger, "/api", nil),
	)

	credentialLimit := middleware.RateLimit(middleware.LoginRateLimitConfig())
	chatLimit := middleware.RateLimit(middleware.RateLimitConfig{RequestsPerSecond: 0.5, BurstSize: 5})

	identity.NewHandler(p.identity).RegisterRoutes(api, credentialLimit)
	doctors.NewHandler(p.doctors).RegisterRoutes(api)
	patients.NewHandler(p.patients).RegisterRoutes(api)
	appointments.NewHandler(p.appointments).RegisterRoutes(api)
	booking.NewHandler(p.booking).RegisterRoutes(api)
	prescriptions.NewHandler(p.prescriptions).RegisterRoutes(api)
	reviews.NewHandler(p.reviews).RegisterRoutes(api)
	dashboard.NewHandler(p.dashboard).RegisterRoutes(api)
	chat.NewHandler(p.chat).RegisterRoutes(api, chatLimit)

	return e
}
