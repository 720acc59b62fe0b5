package reviews

import "context"

// Repository is the backend's review resource.
type Repository interface {
	Create(ctx context.Context, r *Review) (*Review, error)
	ByDoctor(ctx context.Context, doctorID int) ([]Review, error)
	Summary(ctx context.Context, doctorID int) (*Summary, error)
}
