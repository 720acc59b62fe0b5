package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/platform/auth"
	"github.com/hms/portal/internal/platform/session"
)

func newTestHandler(src SlotSource) (*Handler, *fakeCreator, *echo.Echo) {
	creator := &fakeCreator{next: 40}
	svc := NewService(NewCalculator(src, zerolog.Nop()), creator, &fakeDoctors{list: []doctors.Doctor{
		{ID: 1, Name: "Anita Rao", Specialization: "Cardiology"},
	}}, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return NewHandler(svc), creator, echo.New()
}

func asPatient(req *http.Request) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), &session.User{ID: 7, Role: session.RolePatient}))
}

func httpCode(t *testing.T, err error, rec *httptest.ResponseRecorder) int {
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

func TestHandler_Doctors(t *testing.T) {
	h, _, e := newTestHandler(&fakeSource{})
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := h.Doctors(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []doctorOption
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got) != 1 || got[0].Label != "Anita Rao - Cardiology" {
		t.Errorf("unexpected options %+v", got)
	}
}

func TestHandler_Slots(t *testing.T) {
	src := &fakeSource{booked: map[string][]appointments.Appointment{
		"2026-10-20": {{Time: "09:30:00"}},
	}}
	h, _, e := newTestHandler(src)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?doctorId=1&date=2026-10-20&tag=sel-42", nil)
	c := e.NewContext(req, rec)

	if err := h.Slots(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got slotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tag != "sel-42" || got.DoctorID != 1 || got.Date != "2026-10-20" {
		t.Errorf("response not tagged: %+v", got)
	}
	if len(got.Slots) != 16 || got.Slots[1].Available || !got.Slots[0].Available {
		t.Errorf("unexpected slots %+v", got.Slots)
	}
}

func TestHandler_Slots_Fallback(t *testing.T) {
	h, _, e := newTestHandler(&fakeSource{err: errors.New("503")})
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?doctorId=1&date=2026-10-20", nil), rec)

	if err := h.Slots(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got slotsResponse
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Warning != AvailabilityWarning || !allAvailable(got.Slots) {
		t.Errorf("expected degraded full grid, got %+v", got)
	}
}

func TestHandler_Slots_Incomplete(t *testing.T) {
	h, _, e := newTestHandler(&fakeSource{})
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?doctorId=1", nil), rec)

	if code := httpCode(t, h.Slots(c), rec); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_Book(t *testing.T) {
	src := &fakeSource{booked: map[string][]appointments.Appointment{
		"2026-10-20": {{Time: "10:00:00"}},
	}}
	tests := []struct {
		name string
		body string
		code int
	}{
		{"free slot", `{"doctorId":1,"appointmentDate":"2026-10-20","appointmentTime":"10:30","appointmentType":"Check-up"}`, http.StatusCreated},
		{"booked slot", `{"doctorId":1,"appointmentDate":"2026-10-20","appointmentTime":"10:00"}`, http.StatusConflict},
		{"past date", `{"doctorId":1,"appointmentDate":"2026-01-02","appointmentTime":"10:30"}`, http.StatusBadRequest},
		{"missing time", `{"doctorId":1,"appointmentDate":"2026-10-20"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, e := newTestHandler(src)
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(asPatient(req), rec)

			if code := httpCode(t, h.Book(c), rec); code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
		})
	}
}

func TestHandler_Book_DegradedStillPosts(t *testing.T) {
	h, creator, e := newTestHandler(&fakeSource{err: errors.New("timeout")})
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"doctorId":1,"appointmentDate":"2026-10-20","appointmentTime":"10:00"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(asPatient(req), rec)

	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated || len(creator.got) != 1 {
		t.Errorf("expected booking to be posted, got %d with %d posts", rec.Code, len(creator.got))
	}
}

func TestHandler_Book_RequiresLogin(t *testing.T) {
	h, _, e := newTestHandler(&fakeSource{})
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), rec)
	if code := httpCode(t, h.Book(c), rec); code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
}
