package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/doctors"
)

// DefaultAppointmentType describes a booking that carries neither notes
// nor a type.
const DefaultAppointmentType = "Consultation"

var (
	ErrIncomplete     = errors.New("doctor, date and time are required")
	ErrPastDate       = errors.New("appointment date cannot be in the past")
	ErrSlotNotOffered = errors.New("time is not a clinic slot")
	ErrSlotBooked     = errors.New("time slot is already booked")
	ErrNotPatient     = errors.New("only patients can book appointments")
)

// Request is what a patient submits from the booking form.
type Request struct {
	DoctorID int    `json:"doctorId"`
	Date     string `json:"appointmentDate"`
	Time     string `json:"appointmentTime"`
	Type     string `json:"appointmentType,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Description is the backend's descript field: the notes, else the type.
func (r Request) Description() string {
	if n := strings.TrimSpace(r.Notes); n != "" {
		return n
	}
	if t := strings.TrimSpace(r.Type); t != "" {
		return t
	}
	return DefaultAppointmentType
}

type Creator interface {
	Create(ctx context.Context, a *appointments.NewAppointment) (*appointments.Appointment, error)
}

type DoctorLister interface {
	List(ctx context.Context) ([]doctors.Doctor, error)
}

type Service struct {
	calc    *Calculator
	appts   Creator
	doctors DoctorLister
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(calc *Calculator, appts Creator, doctors DoctorLister, logger zerolog.Logger) *Service {
	return &Service{calc: calc, appts: appts, doctors: doctors, logger: logger, now: time.Now}
}

func (s *Service) Doctors(ctx context.Context) ([]doctors.Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) Slots(ctx context.Context, doctorID int, date string) (Result, error) {
	return s.calc.ComputeSlots(ctx, doctorID, date)
}

// Book posts a PENDING appointment for patientID. When known is non-nil the
// chosen slot must be available in it; the backend stays the final judge of
// conflicts either way.
func (s *Service) Book(ctx context.Context, patientID int, req Request, known []TimeSlot) (*appointments.Appointment, error) {
	if patientID <= 0 {
		return nil, ErrNotPatient
	}
	if req.DoctorID <= 0 || req.Date == "" || strings.TrimSpace(req.Time) == "" {
		return nil, ErrIncomplete
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, appointments.ErrInvalidDate
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return nil, ErrPastDate
	}

	clock, ok := EnsureSeconds(req.Time)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotOffered, req.Time)
	}
	if _, ok := find(GenerateSlots(s.calc.grid), clock); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotOffered, clock)
	}
	if known != nil {
		if slot, ok := find(known, clock); ok && !slot.Available {
			return nil, fmt.Errorf("%w: %s", ErrSlotBooked, slot.Display)
		}
	}

	a, err := s.appts.Create(ctx, &appointments.NewAppointment{
		PatientID:   patientID,
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		Time:        clock,
		Description: req.Description(),
		Status:      appointments.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("appointment_id", a.ID).
		Int("doctor_id", req.DoctorID).
		Str("date", req.Date).
		Str("time", clock).
		Msg("appointment booked")
	return a, nil
}
