package doctors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/platform/apiclient"
)

var ErrInvalidDoctor = errors.New("invalid doctor")

// AppointmentSource is the slice of the appointment resource the stats
// fallback needs.
type AppointmentSource interface {
	ByDoctor(ctx context.Context, doctorID int) ([]appointments.Appointment, error)
}

type Service struct {
	repo   Repository
	appts  AppointmentSource
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, appts AppointmentSource, logger zerolog.Logger) *Service {
	return &Service{repo: repo, appts: appts, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Doctor, error) {
	return s.repo.List(ctx)
}

// Search lists doctors and narrows them with Filter.
func (s *Service) Search(ctx context.Context, query string, specialtyID int) ([]Doctor, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(list, query, specialtyID), nil
}

func (s *Service) Get(ctx context.Context, id int) (*Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) BySpecialization(ctx context.Context, specialtyID int) ([]Doctor, error) {
	return s.repo.BySpecialization(ctx, specialtyID)
}

func validate(d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDoctor)
	}
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("%w: a valid e-mail is required", ErrInvalidDoctor)
	}
	if d.SpecialtyID <= 0 {
		return fmt.Errorf("%w: specialization is required", ErrInvalidDoctor)
	}
	if d.Experience < 0 {
		return fmt.Errorf("%w: experience cannot be negative", ErrInvalidDoctor)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, d *Doctor) (*Doctor, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	if d.Password == "" {
		return nil, fmt.Errorf("%w: initial password is required", ErrInvalidDoctor)
	}
	return s.repo.Create(ctx, d)
}

// Update saves a profile edit. The backend rejects an update without a
// password, so the stored one is carried over when the edit leaves it blank.
func (s *Service) Update(ctx context.Context, id int, d *Doctor) (*Doctor, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	d.ID = id
	if d.Password == "" {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		d.Password = current.Password
	}
	return s.repo.Update(ctx, id, d)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Specializations returns the normalized catalogue, or the defaults when
// the backend has none or cannot be reached.
func (s *Service) Specializations(ctx context.Context) []Specialization {
	raw, err := s.repo.Specializations(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("specializations unavailable, using defaults")
		return defaults()
	}
	list, err := NormalizeSpecializations(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("specializations unreadable, using defaults")
		return defaults()
	}
	if len(list) == 0 {
		return defaults()
	}
	return list
}

func defaults() []Specialization {
	out := make([]Specialization, len(DefaultSpecializations))
	copy(out, DefaultSpecializations)
	return out
}

// Stats asks the backend for the doctor's summary and computes it from the
// doctor's appointments when the endpoint is missing or failing.
func (s *Service) Stats(ctx context.Context, id int) (*Stats, error) {
	st, err := s.repo.Stats(ctx, id)
	if err == nil {
		return st, nil
	}
	if !apiclient.IsNotFound(err) && !apiclient.IsTransient(err) {
		return nil, err
	}
	s.logger.Debug().Err(err).Int("doctor_id", id).Msg("stats endpoint unavailable, computing locally")

	list, err := s.appts.ByDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	return ComputeStats(list, s.now()), nil
}

// ComputeStats summarizes appointments relative to the calendar day of now.
func ComputeStats(list []appointments.Appointment, now time.Time) *Stats {
	today := now.Format("2006-01-02")
	st := &Stats{
		TotalAppointments:     len(list),
		TodayAppointmentsList: []appointments.Appointment{},
	}
	patients := make(map[int]struct{})
	for _, a := range list {
		if day, ok := a.Day(now.Location()); ok && day.Format("2006-01-02") == today {
			st.TodayAppointmentsList = append(st.TodayAppointmentsList, a)
		}
		if a.PatientID != 0 {
			patients[a.PatientID] = struct{}{}
		}
	}
	st.TodayAppointments = len(st.TodayAppointmentsList)
	st.PatientCount = len(patients)
	return st
}
