package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/session"
)

type recorded struct {
	method string
	path   string
	body   map[string]string
}

func newRESTBackend(t *testing.T, reply string) (Backend, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		json.NewDecoder(r.Body).Decode(&rec.body)
		calls = append(calls, rec)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return NewBackend(apiclient.New(srv.URL+"/api", nil, time.Second)), &calls
}

func TestIdentityRepoREST_Login(t *testing.T) {
	be, calls := newRESTBackend(t, `{"success":true,"token":"jwt","message":"ok","user":{"id":3,"name":"Dr Rao","role":"DOCTOR"}}`)
	resp, err := be.Login(context.Background(), session.RoleDoctor, &Credentials{Email: "rao@hms.test", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "jwt" || resp.User == nil || resp.User.ID != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
	got := (*calls)[0]
	if got.path != "/api/auth/doctor/login" || got.body["email"] != "rao@hms.test" {
		t.Errorf("unexpected call %+v", got)
	}
}

func TestIdentityRepoREST_ChangePasswordEndpoint(t *testing.T) {
	tests := []struct {
		role session.Role
		want string
	}{
		{session.RoleDoctor, "/api/doctors/3/change-password"},
		{session.RolePatient, "/api/patients/3/change-password"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			be, calls := newRESTBackend(t, `Password changed`)
			if err := be.ChangePassword(context.Background(), tt.role, 3, "old", "new"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := (*calls)[0]
			if got.method != http.MethodPut || got.path != tt.want {
				t.Errorf("expected PUT %s, got %s %s", tt.want, got.method, got.path)
			}
			if got.body["currentPassword"] != "old" || got.body["newPassword"] != "new" {
				t.Errorf("unexpected body %v", got.body)
			}
		})
	}
}

func TestIdentityRepoREST_Reset(t *testing.T) {
	be, calls := newRESTBackend(t, ``)
	if err := be.ResetPassword(context.Background(), "tok", "newpass12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := (*calls)[0]
	if got.path != "/api/patients/reset-password" || got.body["token"] != "tok" || got.body["newPassword"] != "newpass12" {
		t.Errorf("unexpected call %+v", got)
	}
}
