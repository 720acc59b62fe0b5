package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidStatus  = errors.New("invalid appointment status")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrNotCancellable = errors.New("appointment can no longer be cancelled")
	ErrNotOwner       = errors.New("appointment belongs to another patient")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Repo exposes the underlying repository for callers that only read.
func (s *Service) Repo() Repository { return s.repo }

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ForDoctor(ctx context.Context, doctorID int) ([]Appointment, error) {
	return s.repo.ByDoctor(ctx, doctorID)
}

// ForPatient returns the patient's appointments, newest first.
func (s *Service) ForPatient(ctx context.Context, patientID int) ([]Appointment, error) {
	list, err := s.repo.ByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(list)
	return list, nil
}

func (s *Service) ByStatus(ctx context.Context, raw string) ([]Appointment, error) {
	st, ok := ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s.repo.ByStatus(ctx, st)
}

func (s *Service) ByDate(ctx context.Context, date string) ([]Appointment, error) {
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}
	return s.repo.ByDate(ctx, date)
}

func (s *Service) ForDoctorOnDate(ctx context.Context, doctorID int, date string) ([]Appointment, error) {
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}
	return s.repo.ByDoctorAndDate(ctx, doctorID, date)
}

func (s *Service) Create(ctx context.Context, in *NewAppointment) (*Appointment, error) {
	if in.PatientID <= 0 || in.DoctorID <= 0 {
		return nil, fmt.Errorf("patient and doctor are required")
	}
	if !ValidDate(in.Date) {
		return nil, ErrInvalidDate
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) UpdateStatus(ctx context.Context, id int, raw string) (*Appointment, error) {
	st, ok := ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

// Cancel cancels a patient's own pending or confirmed appointment.
func (s *Service) Cancel(ctx context.Context, patientID, id int) (*Appointment, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, ErrNotOwner
	}
	if !a.Cancellable() {
		return nil, fmt.Errorf("%w (status %s)", ErrNotCancellable, a.Status)
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CheckAvailability(ctx context.Context, doctorID int, date, clock string) (bool, error) {
	if !ValidDate(date) {
		return false, ErrInvalidDate
	}
	return s.repo.CheckAvailability(ctx, doctorID, date, clock)
}

// SortNewestFirst orders by date then time, latest first.
func SortNewestFirst(list []Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].Time > list[j].Time
	})
}
