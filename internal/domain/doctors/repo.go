package doctors

import "context"

// Repository is the backend's doctor resource.
type Repository interface {
	List(ctx context.Context) ([]Doctor, error)
	Get(ctx context.Context, id int) (*Doctor, error)
	Create(ctx context.Context, d *Doctor) (*Doctor, error)
	Update(ctx context.Context, id int, d *Doctor) (*Doctor, error)
	Delete(ctx context.Context, id int) error
	BySpecialization(ctx context.Context, specialtyID int) ([]Doctor, error)
	// Specializations returns the raw catalogue body.
	Specializations(ctx context.Context) ([]byte, error)
	Stats(ctx context.Context, id int) (*Stats, error)
}
