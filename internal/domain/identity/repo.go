package identity

import (
	"context"

	"github.com/hms/portal/internal/platform/session"
)

// Backend is the backend's authentication surface.
type Backend interface {
	Login(ctx context.Context, role session.Role, creds *Credentials) (*LoginResponse, error)
	Logout(ctx context.Context) error
	Validate(ctx context.Context) error
	ChangePassword(ctx context.Context, role session.Role, userID int, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, next string) error
}
