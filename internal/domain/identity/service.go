package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/session"
)

// MinPasswordLength applies to changed passwords.
const MinPasswordLength = 8

var (
	ErrInvalidRole       = errors.New("role must be patient, doctor or admin")
	ErrMissingCredential = errors.New("email and password are required")
	ErrLoginFailed       = errors.New("login failed")
	ErrPasswordMismatch  = errors.New("passwords don't match")
	ErrWeakPassword      = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordUnchanged = errors.New("new password must differ from the current one")
	ErrNoPasswordChange  = errors.New("password change is not available for this role")
)

type Service struct {
	backend  Backend
	sessions session.Store
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(backend Backend, sessions session.Store, logger zerolog.Logger) *Service {
	return &Service{backend: backend, sessions: sessions, logger: logger, now: time.Now}
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (session.Role, error) {
	r := session.Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Login signs in as role and stores the resulting session. A reply without
// a token or with success=false is a failed login carrying the backend's
// message.
func (s *Service) Login(ctx context.Context, role session.Role, creds *Credentials) (*session.Session, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredential
	}

	resp, err := s.backend.Login(ctx, role, creds)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Invalid login response"
		}
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}

	sess := &session.Session{Token: resp.Token, User: resp.user(role), CreatedAt: s.now()}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info().
		Int("user_id", sess.User.ID).
		Str("role", string(sess.User.Role)).
		Msg("signed in")
	return sess, nil
}

// Logout tells the backend and always clears the local session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil && !apiclient.IsUnauthorized(err) {
		s.logger.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
	}
	return s.sessions.Clear(ctx)
}

// Validate checks the stored token with the backend and returns its user.
// An invalid token has already cleared the session when this returns.
func (s *Service) Validate(ctx context.Context) (*session.User, error) {
	u, err := session.CurrentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Validate(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// Whoami returns the stored user without calling the backend.
func (s *Service) Whoami(ctx context.Context) (*session.User, error) {
	return session.CurrentUser(ctx, s.sessions)
}

func checkNew(next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// ChangePassword changes the signed-in user's password.
func (s *Service) ChangePassword(ctx context.Context, pc *PasswordChange) error {
	u, err := session.CurrentUser(ctx, s.sessions)
	if err != nil {
		return err
	}
	if u.Role == session.RoleAdmin {
		return ErrNoPasswordChange
	}
	if pc.CurrentPassword == "" {
		return fmt.Errorf("%w: current password is required", ErrMissingCredential)
	}
	if err := checkNew(pc.NewPassword, pc.ConfirmPassword); err != nil {
		return err
	}
	if pc.CurrentPassword == pc.NewPassword {
		return ErrPasswordUnchanged
	}
	if err := s.backend.ChangePassword(ctx, u.Role, u.ID, pc.CurrentPassword, pc.NewPassword); err != nil {
		return err
	}
	s.logger.Info().Int("user_id", u.ID).Msg("password changed")
	return nil
}

// ForgotPassword asks the backend to e-mail a reset token.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid e-mail is required", ErrMissingCredential)
	}
	return s.backend.ForgotPassword(ctx, email)
}

// ResetPassword redeems a reset token.
func (s *Service) ResetPassword(ctx context.Context, r *PasswordReset) error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("%w: reset token is required", ErrMissingCredential)
	}
	if err := checkNew(r.NewPassword, r.ConfirmPassword); err != nil {
		return err
	}
	return s.backend.ResetPassword(ctx, strings.TrimSpace(r.Token), r.NewPassword)
}
