package user

import "context"

// Repository defines the interface for user data access.
// GetByID and GetByEmail return ErrUserNotFound when no row matches;
// Create returns ErrDuplicateEmail when the address is taken.
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, userID int64, params UpdateUserParams) (*User, error)
}
