package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hms/portal/internal/platform/auth"
	"github.com/hms/portal/internal/platform/session"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	svc, repo, _ := newTestService()
	return NewHandler(svc), repo, echo.New()
}

func asUser(req *http.Request, u *session.User) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), u))
}

func statusOf(t *testing.T, err error, rec *httptest.ResponseRecorder) int {
	t.Helper()
	if err == nil {
		return rec.Code
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("unexpected error: %v", err)
	}
	return he.Code
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"name":"Lena","email":"lena@hms.test","password":"secret1","dob":"2001-05-05"}`, http.StatusCreated},
		{"missing email", `{"name":"Lena","password":"secret1"}`, http.StatusBadRequest},
		{"bad json", `{"name":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, e := newTestHandler()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			if code := statusOf(t, h.Register(e.NewContext(req, rec)), rec); code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
			if strings.Contains(rec.Body.String(), "secret1") {
				t.Errorf("password echoed back: %s", rec.Body.String())
			}
		})
	}
}

func TestHandler_Me(t *testing.T) {
	h, _, e := newTestHandler()
	req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), &session.User{ID: 1, Role: session.RolePatient})
	rec := httptest.NewRecorder()

	if err := h.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Patient
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.ID != 1 || got.Password != "" {
		t.Errorf("unexpected profile %+v", got)
	}
}

func TestHandler_UpdateMe(t *testing.T) {
	h, repo, e := newTestHandler()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"pId":2,"name":"Asha N","email":"asha@hms.test"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asUser(req, &session.User{ID: 1, Role: session.RolePatient})
	rec := httptest.NewRecorder()

	if err := h.UpdateMe(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.patients[1].Name != "Asha N" {
		t.Errorf("own record not updated: %+v", repo.patients[1])
	}
	if repo.patients[2].Name != "Ravi Kumar" {
		t.Error("body id must not redirect the update to another patient")
	}
}

func TestHandler_List(t *testing.T) {
	h, _, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?name=ravi", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Total != 1 || body.Data[0].ID != 2 {
		t.Errorf("expected Ravi only, got %+v", body)
	}
}

func TestHandler_ByDoctor(t *testing.T) {
	tests := []struct {
		name string
		user *session.User
		id   string
		code int
	}{
		{"own patients", &session.User{ID: 3, Role: session.RoleDoctor}, "3", http.StatusOK},
		{"other doctor", &session.User{ID: 4, Role: session.RoleDoctor}, "3", http.StatusForbidden},
		{"admin", &session.User{ID: 1, Role: session.RoleAdmin}, "3", http.StatusOK},
		{"bad id", &session.User{ID: 3, Role: session.RoleDoctor}, "x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, e := newTestHandler()
			rec := httptest.NewRecorder()
			c := e.NewContext(asUser(httptest.NewRequest(http.MethodGet, "/", nil), tt.user), rec)
			c.SetParamNames("doctorId")
			c.SetParamValues(tt.id)

			if code := statusOf(t, h.ByDoctor(c), rec); code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	tests := []struct {
		id   string
		code int
	}{
		{"2", http.StatusNoContent},
		{"99", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			h, _, e := newTestHandler()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			if code := statusOf(t, h.Delete(c), rec); code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
		})
	}
}
