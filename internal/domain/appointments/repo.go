package appointments

import "context"

// Repository is the backend's appointment resource.
type Repository interface {
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id int) (*Appointment, error)
	Create(ctx context.Context, a *NewAppointment) (*Appointment, error)
	Update(ctx context.Context, id int, a *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id int) error
	ByDoctor(ctx context.Context, doctorID int) ([]Appointment, error)
	ByPatient(ctx context.Context, patientID int) ([]Appointment, error)
	ByStatus(ctx context.Context, status Status) ([]Appointment, error)
	ByDate(ctx context.Context, date string) ([]Appointment, error)
	ByDoctorAndDate(ctx context.Context, doctorID int, date string) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id int, status Status) (*Appointment, error)
	CheckAvailability(ctx context.Context, doctorID int, date, clock string) (bool, error)
}
