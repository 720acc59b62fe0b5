// Package session holds the signed-in user's bearer token and user record
// behind a Store: a file for a terminal user, memory for tests, redis for a
// portal server shared by many browsers.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role is the portal role reported by the backend on login.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the three portal roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User is the user record kept next to the token.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	Specialty string `json:"specialty,omitempty"`
}

// Session is a bearer token plus the user it belongs to.
type Session struct {
	Token     string    `json:"token"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Expired reports whether the token is a JWT whose exp is before now.
// Opaque tokens never expire client-side; the backend decides.
func (s *Session) Expired(now time.Time) bool {
	if !s.Authenticated() {
		return true
	}
	claims, err := ParseClaims(s.Token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}

var (
	ErrNoSession   = errors.New("no active session")
	ErrNoSessionID = errors.New("session id missing from context")
)

// Store persists a session. Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// CurrentUser loads the session and returns its user, or ErrNoSession.
func CurrentUser(ctx context.Context, st Store) (*User, error) {
	s, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() || s.User == nil {
		return nil, ErrNoSession
	}
	return s.User, nil
}

type contextKey string

const idKey contextKey = "session_id"

// WithID scopes ctx to one browser session. Stores that hold more than one
// session (memory, redis) key on this id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

// IDFromContext returns the session id set by WithID, or "".
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(idKey).(string)
	return id
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}
