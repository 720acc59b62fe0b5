package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/session"
)

type identityRepoREST struct {
	api *apiclient.Client
}

// NewBackend returns a Backend talking to the hospital REST API.
func NewBackend(api *apiclient.Client) Backend {
	return &identityRepoREST{api: api}
}

func (r *identityRepoREST) Login(ctx context.Context, role session.Role, creds *Credentials) (*LoginResponse, error) {
	var out LoginResponse
	path := "/auth/" + strings.ToLower(string(role)) + "/login"
	if err := r.api.Post(ctx, path, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *identityRepoREST) Logout(ctx context.Context) error {
	return r.api.Post(ctx, "/auth/logout", nil, nil)
}

func (r *identityRepoREST) Validate(ctx context.Context) error {
	return r.api.Get(ctx, "/auth/validate", nil, nil)
}

// ChangePassword uses the doctor endpoint for doctors and the patient
// endpoint otherwise.
func (r *identityRepoREST) ChangePassword(ctx context.Context, role session.Role, userID int, current, next string) error {
	resource := "patients"
	if role == session.RoleDoctor {
		resource = "doctors"
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return r.api.Put(ctx, fmt.Sprintf("/%s/%d/change-password", resource, userID), nil, body, nil)
}

func (r *identityRepoREST) ForgotPassword(ctx context.Context, email string) error {
	return r.api.Post(ctx, "/patients/forgot-password", map[string]string{"email": email}, nil)
}

func (r *identityRepoREST) ResetPassword(ctx context.Context, token, next string) error {
	return r.api.Post(ctx, "/patients/reset-password", map[string]string{"token": token, "newPassword": next}, nil)
}
