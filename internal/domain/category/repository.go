package category

import (
	"context"

	"driverfinance/internal/domain"
)

// Repository defines category persistence. GetByID returns ErrNotFound when
// no row matches; FindOwned returns (nil, nil).
type Repository interface {
	Create(ctx context.Context, userID int64, params CreateParams) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	ListVisible(ctx context.Context, userID int64, typ *domain.EntryType) ([]*Category, error)
	FindOwned(ctx context.Context, userID int64, name string, typ domain.EntryType) (*Category, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Category, error)
	Delete(ctx context.Context, id int64) error
	// InUse reports whether any transaction references the category.
	InUse(ctx context.Context, id int64) (bool, error)
	SystemIDsMatching(ctx context.Context, name string, typ domain.EntryType) ([]int64, error)
	EnsureSystem(ctx context.Context, categories []SystemCategory) (int, error)
}
