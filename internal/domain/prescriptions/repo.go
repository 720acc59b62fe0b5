package prescriptions

import "context"

// Repository is the backend's prescription resource.
type Repository interface {
	List(ctx context.Context) ([]Prescription, error)
	Get(ctx context.Context, id int) (*Prescription, error)
	Create(ctx context.Context, p *Prescription) (*Prescription, error)
	Update(ctx context.Context, id int, p *Prescription) (*Prescription, error)
	Delete(ctx context.Context, id int) error
	ByPatient(ctx context.Context, patientID int) ([]Prescription, error)
	ByDoctor(ctx context.Context, doctorID int) ([]Prescription, error)
	ByAppointment(ctx context.Context, appointmentID int) ([]Prescription, error)
	SendEmail(ctx context.Context, id int) error
}
