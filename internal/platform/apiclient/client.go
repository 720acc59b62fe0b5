// Package apiclient is the authenticated REST client every portal area uses
// to reach the hospital backend. It attaches the session's bearer token,
// applies a per-request timeout, paces outbound calls and clears the
// session on any 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hms/portal/internal/platform/session"
)

// DefaultTimeout bounds a single backend call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 4 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	sessions   session.Store
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit paces outbound calls to rps with the given burst. A burst
// below one is raised to one.
func WithRateLimit(rps float64, burst int) Option {
	if burst < 1 {
		burst = 1
	}
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL (e.g.
// "http://localhost:8081/api"). sessions supplies the bearer token and is
// cleared on a 401; it may be nil for anonymous use.
func New(baseURL string, sessions session.Store, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		sessions:   sessions,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, query, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do performs one backend call. body is JSON-encoded when non-nil. out is
// JSON-decoded from a 2xx body when non-nil; a *string receives the raw
// body instead.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(ctx, req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("method", method).
			Str("path", path).
			Dur("latency", time.Since(start)).
			Msg("backend unreachable")
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if err := decodeBody(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.sessions == nil {
		return
	}
	s, err := c.sessions.Load(ctx)
	switch {
	case err == nil:
		if s.Authenticated() {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrNoSessionID):
	default:
		c.logger.Warn().Err(err).Msg("session unreadable, calling backend anonymously")
	}
}

func (c *Client) clearSession(ctx context.Context) {
	if c.sessions == nil {
		return
	}
	// the request context may already be done; clearing must still happen
	if err := c.sessions.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session after 401")
		return
	}
	c.logger.Info().Msg("session cleared after 401")
}

func decodeBody(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(raw)
		return nil
	}
	return json.Unmarshal(raw, out)
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Status    int             `json:"status"`
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode"`
	Errors    json.RawMessage `json:"errors"`
}

func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		apiErr.ErrorCode = body.ErrorCode
		if len(body.Errors) > 0 {
			var fields map[string]string
			if json.Unmarshal(body.Errors, &fields) == nil {
				apiErr.Errors = fields
			}
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
