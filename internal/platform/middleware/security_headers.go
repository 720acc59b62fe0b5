package middleware

import (
	"github.com/labstack/echo/v4"
)

const hstsValue = "max-age=63072000; includeSubDomains"

// portalHeaders go on every response. The portal answers JSON only and
// every body may hold a patient's records.
var portalHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
	{"Cross-Origin-Resource-Policy", "same-site"},
	{"Cache-Control", "no-store"},
	{"Pragma", "no-cache"},
}

// SecurityHeaders sets portalHeaders, plus HSTS when the portal is served
// over TLS.
func SecurityHeaders(tls bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range portalHeaders {
				h.Set(kv[0], kv[1])
			}
			if tls {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			return next(c)
		}
	}
}
