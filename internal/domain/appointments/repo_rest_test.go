package appointments

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

func newRESTRepo(t *testing.T, h http.HandlerFunc) Repository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRepo(apiclient.New(srv.URL+"/api", session.NewMemoryStore(), time.Second))
}

func TestRepoREST_ByDoctorAndDate(t *testing.T) {
	var gotPath string
	repo := newRESTRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"apId":1,"appointmentTime":"09:00:00"},{"apId":2,"appointment_time":"10:30"}]`))
	})

	list, err := repo.ByDoctorAndDate(context.Background(), 3, "2026-10-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/appointments/doctor/3/date/2026-10-20" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(list) != 2 || list[1].Time != "10:30" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestRepoREST_EmptyListIsNotNil(t *testing.T) {
	repo := newRESTRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})
	list, err := repo.ByPatient(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil {
		t.Error("expected empty non-nil list")
	}
}

func TestRepoREST_UpdateStatusFallback(t *testing.T) {
	var calls []string
	repo := newRESTRepo(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/api/appointments/5/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"apId":5,"status":"` + body["status"] + `"}`))
	})

	a, err := repo.UpdateStatus(context.Background(), 5, StatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", a.Status)
	}
	want := []string{"PUT /api/appointments/5/status", "PUT /api/appointments/5"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("expected %v, got %v", want, calls)
	}
}

func TestRepoREST_UpdateStatusNoFallbackOn401(t *testing.T) {
	calls := 0
	repo := newRESTRepo(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := repo.UpdateStatus(context.Background(), 5, StatusConfirmed)
	if !apiclient.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRepoREST_CheckAvailability(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"bare true", `true`, true},
		{"bare false", `false`, false},
		{"wrapped", `{"available":true}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			repo := newRESTRepo(t, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.RawQuery
				w.Write([]byte(tt.body))
			})
			got, err := repo.CheckAvailability(context.Background(), 2, "2026-10-20", "09:00:00")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if gotQuery != "date=2026-10-20&doctorId=2&time=09%3A00%3A00" {
				t.Errorf("unexpected query %q", gotQuery)
			}
		})
	}
}
