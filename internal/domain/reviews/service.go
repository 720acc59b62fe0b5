package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/platform/apiclient"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrNotReviewable = errors.New("only completed appointments can be reviewed")
	ErrNotOwner      = errors.New("appointment belongs to another patient")
)

// AppointmentGetter resolves the appointment a review is written for.
type AppointmentGetter interface {
	Get(ctx context.Context, id int) (*appointments.Appointment, error)
}

type Service struct {
	repo   Repository
	appts  AppointmentGetter
	logger zerolog.Logger
}

func NewService(repo Repository, appts AppointmentGetter, logger zerolog.Logger) *Service {
	return &Service{repo: repo, appts: appts, logger: logger}
}

// Submit records patientID's review of a completed appointment. The
// reviewed doctor is taken from the appointment.
func (s *Service) Submit(ctx context.Context, patientID int, patientName string, in *Input) (*Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if in.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointment is required", ErrNotReviewable)
	}
	a, err := s.appts.Get(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, ErrNotOwner
	}
	if a.Status != appointments.StatusCompleted {
		return nil, fmt.Errorf("%w: appointment is %s", ErrNotReviewable, a.Status)
	}
	if a.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: appointment has no doctor", ErrNotReviewable)
	}

	r, err := s.repo.Create(ctx, &Review{
		PatientID:   patientID,
		DoctorID:    a.DoctorID,
		PatientName: patientName,
		Rating:      in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("doctor_id", a.DoctorID).
		Int("rating", in.Rating).
		Msg("review submitted")
	return r, nil
}

func (s *Service) ForDoctor(ctx context.Context, doctorID int) ([]Review, error) {
	return s.repo.ByDoctor(ctx, doctorID)
}

// Summary returns the backend's rating summary, or one computed from the
// review list when the summary endpoint fails.
func (s *Service) Summary(ctx context.Context, doctorID int) (*Summary, error) {
	sum, err := s.repo.Summary(ctx, doctorID)
	if err == nil {
		return sum, nil
	}
	if apiclient.IsUnauthorized(err) {
		return nil, err
	}
	s.logger.Warn().Err(err).Int("doctor_id", doctorID).Msg("rating summary unavailable, computing from reviews")
	list, lerr := s.repo.ByDoctor(ctx, doctorID)
	if lerr != nil {
		return nil, err
	}
	out := Summarize(list)
	return &out, nil
}
