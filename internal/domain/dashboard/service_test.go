package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/domain/patients"
	"github.com/hms/portal/internal/domain/prescriptions"
	"github.com/hms/portal/internal/platform/apiclient"
)

// -- Fakes --

type fakeAppointments struct {
	list []appointments.Appointment
	err  error
}

func (f *fakeAppointments) List(_ context.Context) ([]appointments.Appointment, error) {
	return f.list, f.err
}

func (f *fakeAppointments) ByDoctor(_ context.Context, doctorID int) ([]appointments.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []appointments.Appointment{}
	for _, a := range f.list {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) ByPatient(_ context.Context, patientID int) ([]appointments.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []appointments.Appointment{}
	for _, a := range f.list {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePatients struct {
	list  []patients.Patient
	err   error
	calls atomic.Int32
}

func (f *fakePatients) List(_ context.Context) ([]patients.Patient, error) {
	f.calls.Add(1)
	return f.list, f.err
}

func (f *fakePatients) ByDoctor(_ context.Context, _ int) ([]patients.Patient, error) {
	f.calls.Add(1)
	return f.list, f.err
}

type fakeDoctors struct {
	list []doctors.Doctor
	err  error
}

func (f *fakeDoctors) List(_ context.Context) ([]doctors.Doctor, error) { return f.list, f.err }

type fakePrescriptions struct {
	list []prescriptions.Prescription
	err  error
}

func (f *fakePrescriptions) ByDoctor(_ context.Context, _ int) ([]prescriptions.Prescription, error) {
	return f.list, f.err
}

func (f *fakePrescriptions) ByPatient(_ context.Context, _ int) ([]prescriptions.Prescription, error) {
	return f.list, f.err
}

type fixture struct {
	appts *fakeAppointments
	pats  *fakePatients
	docs  *fakeDoctors
	rx    *fakePrescriptions
	svc   *Service
}

func newFixture() *fixture {
	f := &fixture{
		appts: &fakeAppointments{list: []appointments.Appointment{
			{ID: 1, DoctorID: 3, PatientID: 7, Date: "2026-10-02"},
			{ID: 2, DoctorID: 3, PatientID: 7, Date: "2026-10-16"},
			{ID: 3, DoctorID: 3, PatientID: 8, Date: "2026-10-18"},
			{ID: 4, DoctorID: 4, PatientID: 8, Date: "2026-10-18"},
			{ID: 5, DoctorID: 3, PatientID: 9, Date: "2026-08-30"},
		}},
		pats: &fakePatients{list: []patients.Patient{
			{ID: 7, Name: "Asha", Password: "x"}, {ID: 8, Name: "Ravi"}, {ID: 9, Name: "Lena"}, {ID: 10, Name: "Omar"},
		}},
		docs: &fakeDoctors{list: []doctors.Doctor{
			{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C", Password: "p"}, {ID: 4, Name: "D"},
		}},
		rx: &fakePrescriptions{list: []prescriptions.Prescription{
			{ID: 1, AppointmentDate: "2026-09-01"},
			{ID: 2, AppointmentDate: "2026-10-02"},
			{ID: 3, AppointmentDate: "2026-08-30"},
			{ID: 4, AppointmentDate: "2026-10-10"},
		}},
	}
	f.svc = NewService(f.appts, f.pats, f.docs, f.rx, zerolog.Nop())
	f.svc.now = func() time.Time { return testNow }
	return f
}

func TestService_Doctor(t *testing.T) {
	f := newFixture()
	v, err := f.svc.Doctor(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Counts != (Counts{Today: 1, Upcoming: 1, Past: 2, Total: 4}) {
		t.Errorf("unexpected counts %+v", v.Counts)
	}
	if len(v.RecentPatients) != 3 {
		t.Fatalf("expected 3 recent patients, got %d", len(v.RecentPatients))
	}
	asha := v.RecentPatients[0]
	if asha.LastVisit != "2026-10-02" || asha.NextAppointment != "2026-10-16" || asha.Patient.Password != "" {
		t.Errorf("unexpected visit summary %+v", asha)
	}
	if len(v.RecentPrescriptions) != 3 || v.RecentPrescriptions[0].ID != 4 {
		t.Errorf("expected newest prescriptions first, got %+v", v.RecentPrescriptions)
	}
	if len(v.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", v.Warnings)
	}
}

func TestService_Doctor_OptionalSectionsDegrade(t *testing.T) {
	f := newFixture()
	f.pats.err = &apiclient.APIError{StatusCode: 500, Message: "boom"}
	f.rx.err = errors.New("timeout")

	v, err := f.svc.Doctor(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Warnings) != 2 || len(v.RecentPatients) != 0 || len(v.RecentPrescriptions) != 0 {
		t.Errorf("expected two warnings and empty sections, got %+v", v)
	}
	if v.Counts.Total != 4 {
		t.Errorf("appointments should still be counted, got %+v", v.Counts)
	}
}

func TestService_Doctor_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fixture)
	}{
		{"appointments down", func(f *fixture) { f.appts.err = errors.New("refused") }},
		{"unauthorized patients", func(f *fixture) { f.pats.err = &apiclient.APIError{StatusCode: 401} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)
			if _, err := f.svc.Doctor(context.Background(), 3); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestService_Patient(t *testing.T) {
	f := newFixture()
	v, err := f.svc.Patient(context.Background(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Counts != (Counts{Upcoming: 2, Total: 2}) || len(v.Agenda) != 2 {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestService_Admin(t *testing.T) {
	f := newFixture()
	v, err := f.svc.Admin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.TotalDoctors != 4 || v.TotalPatients != 4 || v.TotalAppointments != 5 {
		t.Errorf("unexpected totals %+v", v)
	}
	if len(v.RecentDoctors) != 3 || v.RecentDoctors[0].ID != 4 || v.RecentDoctors[1].Password != "" {
		t.Errorf("unexpected recent doctors %+v", v.RecentDoctors)
	}
	if len(v.RecentPatients) != 3 || v.RecentPatients[0].ID != 10 {
		t.Errorf("unexpected recent patients %+v", v.RecentPatients)
	}
	if len(v.RecentAppointments) != 5 || v.RecentAppointments[0].ID != 5 {
		t.Errorf("unexpected recent appointments %+v", v.RecentAppointments)
	}
	if f.docs.list[2].Password != "p" {
		t.Error("source list must not be modified")
	}
}

func TestService_Admin_AnyFailureFails(t *testing.T) {
	f := newFixture()
	f.docs.err = errors.New("refused")
	if _, err := f.svc.Admin(context.Background()); err == nil {
		t.Error("expected error")
	}
}
