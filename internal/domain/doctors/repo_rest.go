package doctors

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hms/portal/internal/platform/apiclient"
)

type doctorRepoREST struct {
	api *apiclient.Client
}

// NewRepo returns a Repository backed by the hospital REST API.
func NewRepo(api *apiclient.Client) Repository {
	return &doctorRepoREST{api: api}
}

func (r *doctorRepoREST) list(ctx context.Context, path string) ([]Doctor, error) {
	var out []Doctor
	if err := r.api.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Doctor{}
	}
	return out, nil
}

func (r *doctorRepoREST) List(ctx context.Context) ([]Doctor, error) {
	return r.list(ctx, "/doctors")
}

func (r *doctorRepoREST) Get(ctx context.Context, id int) (*Doctor, error) {
	var d Doctor
	if err := r.api.Get(ctx, fmt.Sprintf("/doctors/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoREST) Create(ctx context.Context, in *Doctor) (*Doctor, error) {
	var d Doctor
	if err := r.api.Post(ctx, "/doctors", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoREST) Update(ctx context.Context, id int, in *Doctor) (*Doctor, error) {
	var d Doctor
	if err := r.api.Put(ctx, fmt.Sprintf("/doctors/%d", id), nil, in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoREST) Delete(ctx context.Context, id int) error {
	return r.api.Delete(ctx, fmt.Sprintf("/doctors/%d", id), nil)
}

func (r *doctorRepoREST) BySpecialization(ctx context.Context, specialtyID int) ([]Doctor, error) {
	return r.list(ctx, fmt.Sprintf("/doctors/specialization/%d", specialtyID))
}

func (r *doctorRepoREST) Specializations(ctx context.Context) ([]byte, error) {
	var raw json.RawMessage
	if err := r.api.Get(ctx, "/specializations", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (r *doctorRepoREST) Stats(ctx context.Context, id int) (*Stats, error) {
	var s Stats
	if err := r.api.Get(ctx, fmt.Sprintf("/doctors/%d/stats", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
