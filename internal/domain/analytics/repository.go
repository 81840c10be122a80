package analytics

import (
	"context"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/money"
)

// Repository computes aggregates over a user's transactions. Every method
// scopes by user and treats the period as half-open.
type Repository interface {
	Totals(ctx context.Context, userID int64, period Period) (Totals, error)
	// CategoryTotals groups by category, with uncategorized rows grouped
	// under a nil CategoryID. A nil typ includes both types.
	CategoryTotals(ctx context.Context, userID int64, typ *domain.EntryType, period Period) ([]CategoryTotal, error)
	CategorySubsetTotal(ctx context.Context, userID int64, categoryIDs []int64, typ domain.EntryType, period Period) (money.Amount, int64, error)
}

// FuelCategories resolves which categories count as fuel.
type FuelCategories interface {
	FuelCategoryIDs(ctx context.Context) ([]int64, error)
}
