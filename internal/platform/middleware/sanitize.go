package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const maxHeaderValueSize = 8192

var (
	// Logged only. Patient names may contain quotes.
	sqlPatterns = regexp.MustCompile(`(?i)('+\s*;\s*DROP\b|UNION\s+SELECT\b|'\s+OR\s+1\s*=\s*1)`)

	scriptPatterns = regexp.MustCompile(`(?i)(<script|javascript\s*:|on\w+\s*=)`)
)

// Sanitize turns away requests the hospital backend should never see: path
// traversal, null bytes, header injection and script fragments in the
// query. Query values that look like SQL injection are only logged.
func Sanitize(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reason := checkPath(req.URL)
			if reason == "" {
				reason = checkHeaders(req.Header)
			}
			if reason == "" {
				reason = checkQuery(req.URL.Query(), func(key string) {
					logger.Warn().
						Str("param", key).
						Str("path", req.URL.Path).
						Str("remote_ip", c.RealIP()).
						Msg("suspicious query parameter")
				})
			}
			if reason != "" {
				logger.Warn().
					Str("reason", reason).
					Str("remote_ip", c.RealIP()).
					Msg("request rejected")
				return echo.NewHTTPError(http.StatusBadRequest, reason)
			}
			return next(c)
		}
	}
}

func checkPath(u *url.URL) string {
	for _, p := range []string{u.Path, u.RawPath} {
		lower := strings.ToLower(p)
		switch {
		case strings.Contains(p, "..") || strings.Contains(lower, "%2e%2e") || strings.Contains(lower, "%252e"):
			return "path traversal detected"
		case hasNullByte(p):
			return "null byte in path"
		}
	}
	return ""
}

func checkHeaders(h http.Header) string {
	for name, values := range h {
		for _, v := range values {
			if len(v) > maxHeaderValueSize {
				return "header value too large: " + name
			}
			if strings.ContainsAny(v, "\r\n") {
				return "header injection detected: " + name
			}
		}
	}
	return ""
}

// checkQuery reports the first rejected parameter. suspicious is called
// for each key whose value looks like SQL.
func checkQuery(q url.Values, suspicious func(key string)) string {
	for key, values := range q {
		for _, v := range values {
			if hasNullByte(key) || hasNullByte(v) {
				return "null byte in query parameter"
			}
			if scriptPatterns.MatchString(key) || scriptPatterns.MatchString(v) {
				return "script in query parameter"
			}
			if sqlPatterns.MatchString(v) {
				suspicious(key)
			}
		}
	}
	return ""
}

func hasNullByte(s string) bool {
	return strings.ContainsRune(s, '\x00') || strings.Contains(s, "%00")
}

// SanitizeString cleans free text typed by a user, such as a chat prompt or
// appointment notes: control characters other than newline, carriage return
// and tab are dropped and surrounding whitespace is trimmed.
func SanitizeString(input string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, input))
}
