package reviews

import (
	"context"
	"fmt"

	"github.com/hms/portal/internal/platform/apiclient"
)

type reviewRepoREST struct {
	api *apiclient.Client
}

// NewRepo returns a Repository backed by the hospital REST API.
func NewRepo(api *apiclient.Client) Repository {
	return &reviewRepoREST{api: api}
}

func (r *reviewRepoREST) Create(ctx context.Context, in *Review) (*Review, error) {
	var out Review
	if err := r.api.Post(ctx, "/reviews", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reviewRepoREST) ByDoctor(ctx context.Context, doctorID int) ([]Review, error) {
	var out []Review
	if err := r.api.Get(ctx, fmt.Sprintf("/reviews/doctor/%d", doctorID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Review{}
	}
	return out, nil
}

func (r *reviewRepoREST) Summary(ctx context.Context, doctorID int) (*Summary, error) {
	var out Summary
	if err := r.api.Get(ctx, fmt.Sprintf("/reviews/doctor/%d/summary", doctorID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
