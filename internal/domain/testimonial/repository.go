package testimonial

import "context"

// Repository exposes data access for Testimonial records.
type Repository interface {
	Create(ctx context.Context, t *Testimonial) error
	List(ctx context.Context) ([]*Testimonial, error)
	GetByID(ctx context.Context, id string) (*Testimonial, error)
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id string) error
}
