package internship

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Internship entities.
type Repository interface {
	Create(ctx context.Context, i *Internship) error
	GetByID(ctx context.Context, id int64) (*Internship, error)
	Update(ctx context.Context, i *Internship) error // Should handle updates to dates, supervisor and status
	ListActive(ctx context.Context) ([]*Internship, error)
	ListTracked(ctx context.Context) ([]*Internship, error) // everything except terminated placements
	ListAll(ctx context.Context) ([]*Internship, error)
}
