package recipient

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Recipient entities.
type Repository interface {
	Create(ctx context.Context, r *Recipient) error
	GetByID(ctx context.Context, id int64) (*Recipient, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Recipient, error)
	Update(ctx context.Context, r *Recipient) error // Should handle updates to name, role, IsActive
	ListActive(ctx context.Context) ([]*Recipient, error)
	ListActiveByRole(ctx context.Context, role Role) ([]*Recipient, error)
	ListAll(ctx context.Context) ([]*Recipient, error) // For admin purposes
}
