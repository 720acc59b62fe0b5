package appointments

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAppointment_UnmarshalAliases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Appointment
	}{
		{
			"camel case",
			`{"apId":4,"pId":7,"drId":2,"appointmentDate":"2026-10-20","appointmentTime":"09:30:00","status":"PENDING"}`,
			Appointment{ID: 4, PatientID: 7, DoctorID: 2, Date: "2026-10-20", Time: "09:30:00", Status: StatusPending},
		},
		{
			"snake case",
			`{"id":4,"P_ID":7,"drId":2,"appointment_date":"2026-10-20","appointment_time":"10:00"}`,
			Appointment{ID: 4, PatientID: 7, DoctorID: 2, Date: "2026-10-20", Time: "10:00"},
		},
		{
			"legacy date",
			`{"apId":1,"date":"2026-10-21"}`,
			Appointment{ID: 1, Date: "2026-10-21"},
		},
		{
			"canonical wins",
			`{"apId":1,"appointmentTime":"11:00:00","appointment_time":"12:00:00"}`,
			Appointment{ID: 1, Time: "11:00:00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Appointment
			if err := json.Unmarshal([]byte(tt.body), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAppointment_Day(t *testing.T) {
	a := Appointment{Date: "2026-10-20T00:00:00.000+00:00"}
	d, ok := a.Day(time.UTC)
	if !ok {
		t.Fatal("expected timestamp date to parse")
	}
	if d.Format("2006-01-02") != "2026-10-20" {
		t.Errorf("unexpected day %v", d)
	}

	if _, ok := (&Appointment{Date: "20/10/2026"}).Day(time.UTC); ok {
		t.Error("expected foreign date format to be rejected")
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus(" confirmed "); !ok || st != StatusConfirmed {
		t.Errorf("expected CONFIRMED, got %q %v", st, ok)
	}
	if _, ok := ParseStatus("DONE"); ok {
		t.Error("expected DONE to be rejected")
	}
}

func TestAppointment_Cancellable(t *testing.T) {
	for st, want := range map[Status]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCompleted: false,
		StatusCancelled: false,
	} {
		if got := (&Appointment{Status: st}).Cancellable(); got != want {
			t.Errorf("%s: Cancellable() = %v, want %v", st, got, want)
		}
	}
}
