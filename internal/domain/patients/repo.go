package patients

import "context"

// Repository is the backend's patient resource.
type Repository interface {
	List(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, id int) (*Patient, error)
	Create(ctx context.Context, p *Patient) (*Patient, error)
	Update(ctx context.Context, id int, p *Patient) (*Patient, error)
	Delete(ctx context.Context, id int) error
	SearchByName(ctx context.Context, name string) ([]Patient, error)
	ByEmail(ctx context.Context, email string) (*Patient, error)
	ByContact(ctx context.Context, contact string) ([]Patient, error)
	ByDoctor(ctx context.Context, doctorID int) ([]Patient, error)
}
