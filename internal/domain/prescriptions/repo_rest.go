package prescriptions

import (
	"context"
	"fmt"

	"github.com/hms/portal/internal/platform/apiclient"
)

type prescriptionRepoREST struct {
	api *apiclient.Client
}

// NewRepo returns a Repository backed by the hospital REST API.
func NewRepo(api *apiclient.Client) Repository {
	return &prescriptionRepoREST{api: api}
}

func (r *prescriptionRepoREST) list(ctx context.Context, path string) ([]Prescription, error) {
	var out []Prescription
	if err := r.api.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Prescription{}
	}
	return out, nil
}

func (r *prescriptionRepoREST) List(ctx context.Context) ([]Prescription, error) {
	return r.list(ctx, "/prescriptions")
}

func (r *prescriptionRepoREST) Get(ctx context.Context, id int) (*Prescription, error) {
	var p Prescription
	if err := r.api.Get(ctx, fmt.Sprintf("/prescriptions/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prescriptionRepoREST) Create(ctx context.Context, in *Prescription) (*Prescription, error) {
	var p Prescription
	if err := r.api.Post(ctx, "/prescriptions", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prescriptionRepoREST) Update(ctx context.Context, id int, in *Prescription) (*Prescription, error) {
	var p Prescription
	if err := r.api.Put(ctx, fmt.Sprintf("/prescriptions/%d", id), nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prescriptionRepoREST) Delete(ctx context.Context, id int) error {
	return r.api.Delete(ctx, fmt.Sprintf("/prescriptions/%d", id), nil)
}

func (r *prescriptionRepoREST) ByPatient(ctx context.Context, patientID int) ([]Prescription, error) {
	return r.list(ctx, fmt.Sprintf("/prescriptions/patient/%d", patientID))
}

func (r *prescriptionRepoREST) ByDoctor(ctx context.Context, doctorID int) ([]Prescription, error) {
	return r.list(ctx, fmt.Sprintf("/prescriptions/doctor/%d", doctorID))
}

func (r *prescriptionRepoREST) ByAppointment(ctx context.Context, appointmentID int) ([]Prescription, error) {
	return r.list(ctx, fmt.Sprintf("/prescriptions/appointment/%d", appointmentID))
}

// SendEmail asks the backend to mail the prescription to its patient. The
// reply is a plain-text confirmation.
func (r *prescriptionRepoREST) SendEmail(ctx context.Context, id int) error {
	var reply string
	return r.api.Post(ctx, fmt.Sprintf("/prescriptions/%d/send-email", id), nil, &reply)
}
