package patients

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hms/portal/internal/platform/apiclient"
)

type patientRepoREST struct {
	api *apiclient.Client
}

// NewRepo returns a Repository backed by the hospital REST API.
func NewRepo(api *apiclient.Client) Repository {
	return &patientRepoREST{api: api}
}

func (r *patientRepoREST) list(ctx context.Context, path string, query url.Values) ([]Patient, error) {
	var out []Patient
	if err := r.api.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Patient{}
	}
	return out, nil
}

func (r *patientRepoREST) List(ctx context.Context) ([]Patient, error) {
	return r.list(ctx, "/patients", nil)
}

func (r *patientRepoREST) Get(ctx context.Context, id int) (*Patient, error) {
	var p Patient
	if err := r.api.Get(ctx, fmt.Sprintf("/patients/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoREST) Create(ctx context.Context, in *Patient) (*Patient, error) {
	var p Patient
	if err := r.api.Post(ctx, "/patients", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoREST) Update(ctx context.Context, id int, in *Patient) (*Patient, error) {
	var p Patient
	if err := r.api.Put(ctx, fmt.Sprintf("/patients/%d", id), nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoREST) Delete(ctx context.Context, id int) error {
	return r.api.Delete(ctx, fmt.Sprintf("/patients/%d", id), nil)
}

func (r *patientRepoREST) SearchByName(ctx context.Context, name string) ([]Patient, error) {
	return r.list(ctx, "/patients/search", url.Values{"name": {name}})
}

func (r *patientRepoREST) ByEmail(ctx context.Context, email string) (*Patient, error) {
	var p Patient
	if err := r.api.Get(ctx, "/patients/email", url.Values{"email": {email}}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoREST) ByContact(ctx context.Context, contact string) ([]Patient, error) {
	return r.list(ctx, "/patients/search-contact", url.Values{"contact": {contact}})
}

func (r *patientRepoREST) ByDoctor(ctx context.Context, doctorID int) ([]Patient, error) {
	return r.list(ctx, fmt.Sprintf("/patients/doctor/%d", doctorID), nil)
}
