package transaction

import "context"

// Repository defines the interface for transaction data access.
// GetByID returns ErrNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, userID int64, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, userID int64, filter Filter) ([]*Transaction, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
}
