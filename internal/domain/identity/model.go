package identity

import (
	"strings"

	"github.com/hms/portal/internal/platform/session"
)

// Credentials is a login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the backend login reply. Older builds put the user's
// fields at the top level instead of under "user".
type LoginResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token"`
	Message string        `json:"message"`
	User    *session.User `json:"user"`

	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// user returns the signed-in user described by r, defaulting the role to
// the one the login was made as.
func (r *LoginResponse) user(as session.Role) *session.User {
	var u session.User
	if r.User != nil {
		u = *r.User
	}
	if u.ID == 0 {
		u.ID = r.ID
	}
	if u.Name == "" {
		u.Name = r.Name
	}
	if u.Email == "" {
		u.Email = r.Email
	}
	if u.Role == "" {
		u.Role = session.Role(strings.ToUpper(r.Role))
	}
	u.Role = session.Role(strings.ToUpper(string(u.Role)))
	if !u.Role.Valid() {
		u.Role = as
	}
	return &u
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordReset redeems an e-mailed reset token.
type PasswordReset struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
