package prescriptions

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// EmailWarning is attached to a saved prescription whose e-mail failed.
const EmailWarning = "Prescription saved but email failed to send"

var (
	ErrInvalidPrescription = errors.New("invalid prescription")
	ErrNotPrescriber       = errors.New("prescription belongs to another doctor")
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Prescription, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*Prescription, error) {
	return s.repo.Get(ctx, id)
}

// ForPatient returns the patient's prescriptions, newest first.
func (s *Service) ForPatient(ctx context.Context, patientID int) ([]Prescription, error) {
	list, err := s.repo.ByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(list)
	return list, nil
}

// ForDoctor returns the prescriptions the doctor wrote, newest first.
func (s *Service) ForDoctor(ctx context.Context, doctorID int) ([]Prescription, error) {
	list, err := s.repo.ByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(list)
	return list, nil
}

func (s *Service) ForAppointment(ctx context.Context, appointmentID int) ([]Prescription, error) {
	return s.repo.ByAppointment(ctx, appointmentID)
}

// Recent returns at most n of the doctor's latest prescriptions.
func (s *Service) Recent(ctx context.Context, doctorID, n int) ([]Prescription, error) {
	list, err := s.ForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}

// SortNewestFirst orders by appointment date, then id, both descending.
func SortNewestFirst(list []Prescription) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].AppointmentDate != list[j].AppointmentDate {
			return list[i].AppointmentDate > list[j].AppointmentDate
		}
		return list[i].ID > list[j].ID
	})
}

func validate(d *Draft) error {
	d.trim()
	if d.Medicine == "" || d.Advice == "" {
		return fmt.Errorf("%w: medicine and advice are required", ErrInvalidPrescription)
	}
	return nil
}

// Write stores a new prescription and, when asked, mails it to the
// patient. A failed e-mail leaves the prescription saved and sets
// Warning.
func (s *Service) Write(ctx context.Context, d *Draft) (*Saved, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	if d.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointment is required", ErrInvalidPrescription)
	}

	p, err := s.repo.Create(ctx, &Prescription{
		AppointmentID: d.AppointmentID,
		PatientID:     d.PatientID,
		Medicine:      d.Medicine,
		Advice:        d.Advice,
		Remark:        d.Remark,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("prescription_id", p.ID).
		Int("appointment_id", d.AppointmentID).
		Msg("prescription written")

	out := &Saved{Prescription: *p}
	if d.SendEmail {
		if err := s.SendEmail(ctx, p.ID); err != nil {
			out.Warning = EmailWarning
		}
	}
	return out, nil
}

// SendEmail mails prescription id to its patient.
func (s *Service) SendEmail(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: no prescription id to mail", ErrInvalidPrescription)
	}
	if err := s.repo.SendEmail(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int("prescription_id", id).Msg("prescription email failed")
		return err
	}
	return nil
}

// Revise replaces the medicine, advice and remark of prescription id.
// doctorID, when non-zero, must be the prescribing doctor.
func (s *Service) Revise(ctx context.Context, id, doctorID int, d *Draft) (*Prescription, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctorID != 0 && cur.DoctorID != 0 && cur.DoctorID != doctorID {
		return nil, ErrNotPrescriber
	}
	cur.Medicine = d.Medicine
	cur.Advice = d.Advice
	cur.Remark = d.Remark
	return s.repo.Update(ctx, id, cur)
}

// Delete removes prescription id. doctorID, when non-zero, must be the
// prescribing doctor.
func (s *Service) Delete(ctx context.Context, id, doctorID int) error {
	if doctorID != 0 {
		cur, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if cur.DoctorID != 0 && cur.DoctorID != doctorID {
			return ErrNotPrescriber
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int("prescription_id", id).Msg("prescription deleted")
	return nil
}
