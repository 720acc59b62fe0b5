package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/domain/patients"
	"github.com/hms/portal/internal/domain/prescriptions"
	"github.com/hms/portal/internal/platform/apiclient"
)

const (
	recentPatients      = 3
	recentPrescriptions = 3
	recentDoctors       = 3
	recentAppointments  = 5
)

type AppointmentSource interface {
	List(ctx context.Context) ([]appointments.Appointment, error)
	ByDoctor(ctx context.Context, doctorID int) ([]appointments.Appointment, error)
	ByPatient(ctx context.Context, patientID int) ([]appointments.Appointment, error)
}

type PatientSource interface {
	List(ctx context.Context) ([]patients.Patient, error)
	ByDoctor(ctx context.Context, doctorID int) ([]patients.Patient, error)
}

type DoctorSource interface {
	List(ctx context.Context) ([]doctors.Doctor, error)
}

type PrescriptionSource interface {
	ByDoctor(ctx context.Context, doctorID int) ([]prescriptions.Prescription, error)
	ByPatient(ctx context.Context, patientID int) ([]prescriptions.Prescription, error)
}

// PatientVisit is a recent patient with their visit dates.
type PatientVisit struct {
	Patient         patients.Patient `json:"patient"`
	LastVisit       string           `json:"lastVisit,omitempty"`
	NextAppointment string           `json:"nextAppointment,omitempty"`
}

type DoctorView struct {
	Counts              Counts                       `json:"counts"`
	Agenda              []appointments.Appointment   `json:"agenda"`
	RecentPatients      []PatientVisit               `json:"recentPatients"`
	RecentPrescriptions []prescriptions.Prescription `json:"recentPrescriptions"`
	Warnings            []string                     `json:"warnings,omitempty"`
}

type PatientView struct {
	Counts              Counts                       `json:"counts"`
	Agenda              []appointments.Appointment   `json:"agenda"`
	RecentPrescriptions []prescriptions.Prescription `json:"recentPrescriptions"`
}

type AdminView struct {
	TotalDoctors       int                        `json:"totalDoctors"`
	TotalPatients      int                        `json:"totalPatients"`
	TotalAppointments  int                        `json:"totalAppointments"`
	RecentDoctors      []doctors.Doctor           `json:"recentDoctors"`
	RecentPatients     []patients.Patient         `json:"recentPatients"`
	RecentAppointments []appointments.Appointment `json:"recentAppointments"`
}

type Service struct {
	appts  AppointmentSource
	pats   PatientSource
	docs   DoctorSource
	rx     PrescriptionSource
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(appts AppointmentSource, pats PatientSource, docs DoctorSource, rx PrescriptionSource, logger zerolog.Logger) *Service {
	return &Service{appts: appts, pats: pats, docs: docs, rx: rx, logger: logger, now: time.Now}
}

// optional runs fetch and downgrades any failure other than a 401 to a
// warning, leaving the section empty.
func (s *Service) optional(section string, warnings *[]string, fetch func() error) error {
	err := fetch()
	if err == nil || apiclient.IsUnauthorized(err) {
		return err
	}
	s.logger.Warn().Err(err).Str("section", section).Msg("dashboard section unavailable")
	*warnings = append(*warnings, "Failed to load "+section)
	return nil
}

// Doctor builds a doctor's dashboard. Appointments are required; recent
// patients and prescriptions are best effort.
func (s *Service) Doctor(ctx context.Context, doctorID int) (*DoctorView, error) {
	var (
		appts   []appointments.Appointment
		pats    []patients.Patient
		rx      []prescriptions.Prescription
		patWarn []string
		rxWarn  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = s.appts.ByDoctor(gctx, doctorID)
		return err
	})
	g.Go(func() error {
		return s.optional("patients", &patWarn, func() error {
			var err error
			pats, err = s.pats.ByDoctor(gctx, doctorID)
			return err
		})
	})
	g.Go(func() error {
		return s.optional("prescriptions", &rxWarn, func() error {
			var err error
			rx, err = s.rx.ByDoctor(gctx, doctorID)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	v := &DoctorView{RecentPatients: []PatientVisit{}, RecentPrescriptions: []prescriptions.Prescription{}}
	v.Counts, v.Agenda = CountAppointments(appts, now)
	v.Warnings = append(patWarn, rxWarn...)

	byPatient := make(map[int][]appointments.Appointment)
	for _, a := range appts {
		byPatient[a.PatientID] = append(byPatient[a.PatientID], a)
	}
	for i := 0; i < len(pats) && i < recentPatients; i++ {
		last, next := Visits(byPatient[pats[i].ID], now)
		v.RecentPatients = append(v.RecentPatients, PatientVisit{Patient: pats[i].Public(), LastVisit: last, NextAppointment: next})
	}

	prescriptions.SortNewestFirst(rx)
	for i := 0; i < len(rx) && i < recentPrescriptions; i++ {
		v.RecentPrescriptions = append(v.RecentPrescriptions, rx[i])
	}
	return v, nil
}

// Patient builds a patient's dashboard.
func (s *Service) Patient(ctx context.Context, patientID int) (*PatientView, error) {
	var (
		appts []appointments.Appointment
		rx    []prescriptions.Prescription
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = s.appts.ByPatient(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		rx, err = s.rx.ByPatient(gctx, patientID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := &PatientView{RecentPrescriptions: []prescriptions.Prescription{}}
	v.Counts, v.Agenda = CountAppointments(appts, s.now())
	prescriptions.SortNewestFirst(rx)
	for i := 0; i < len(rx) && i < recentPrescriptions; i++ {
		v.RecentPrescriptions = append(v.RecentPrescriptions, rx[i])
	}
	return v, nil
}

// Admin fetches doctors, patients and appointments concurrently. Any
// failure fails the whole overview.
func (s *Service) Admin(ctx context.Context) (*AdminView, error) {
	var (
		docs  []doctors.Doctor
		pats  []patients.Patient
		appts []appointments.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.docs.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pats, err = s.pats.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		appts, err = s.appts.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := &AdminView{
		TotalDoctors:       len(docs),
		TotalPatients:      len(pats),
		TotalAppointments:  len(appts),
		RecentDoctors:      lastN(docs, recentDoctors),
		RecentPatients:     lastN(pats, recentPatients),
		RecentAppointments: lastN(appts, recentAppointments),
	}
	for i := range v.RecentDoctors {
		v.RecentDoctors[i] = v.RecentDoctors[i].Public()
	}
	for i := range v.RecentPatients {
		v.RecentPatients[i] = v.RecentPatients[i].Public()
	}
	return v, nil
}
