package postgres

import (
	"context"

	"github.com/lib/pq"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/analytics"
	"driverfinance/internal/shared/money"
)

type AnalyticsRepository struct {
	db *DB
}

func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Totals(ctx context.Context, userID int64, period analytics.Period) (analytics.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COUNT(*) FILTER (WHERE type = 'income'),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*) FILTER (WHERE type = 'expense')
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR transaction_date >= $2)
		  AND ($3::timestamptz IS NULL OR transaction_date < $3)`

	var t analytics.Totals
	err := r.db.QueryRowContext(ctx, query, userID, nullTime(period.Start), nullTime(period.End)).
		Scan(&t.IncomeTotal, &t.IncomeCount, &t.ExpenseTotal, &t.ExpenseCount)
	if err != nil {
		return analytics.Totals{}, storageErr("sum transactions", err)
	}
	return t, nil
}

func (r *AnalyticsRepository) CategoryTotals(ctx context.Context, userID int64, typ *domain.EntryType, period analytics.Period) ([]analytics.CategoryTotal, error) {
	query := `
		SELECT c.id, COALESCE(c.name, ''), t.type::text, COALESCE(c.color, ''), c.icon,
			SUM(t.amount), COUNT(t.id)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		  AND ($2::text IS NULL OR t.type::text = $2)
		  AND ($3::timestamptz IS NULL OR t.transaction_date >= $3)
		  AND ($4::timestamptz IS NULL OR t.transaction_date < $4)
		GROUP BY c.id, c.name, t.type, c.color, c.icon`

	rows, err := r.db.QueryContext(ctx, query, userID, typ, nullTime(period.Start), nullTime(period.End))
	if err != nil {
		return nil, storageErr("group transactions by category", err)
	}
	defer rows.Close()

	var totals []analytics.CategoryTotal
	for rows.Next() {
		var ct analytics.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Type, &ct.Color, &ct.Icon, &ct.Total, &ct.Count); err != nil {
			return nil, storageErr("scan category total", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("group transactions by category", err)
	}
	return totals, nil
}

func (r *AnalyticsRepository) CategorySubsetTotal(ctx context.Context, userID int64, categoryIDs []int64, typ domain.EntryType, period analytics.Period) (money.Amount, int64, error) {
	if len(categoryIDs) == 0 {
		return money.Zero, 0, nil
	}

	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1
		  AND type::text = $2
		  AND category_id = ANY($3)
		  AND ($4::timestamptz IS NULL OR transaction_date >= $4)
		  AND ($5::timestamptz IS NULL OR transaction_date < $5)`

	var (
		total money.Amount
		count int64
	)
	err := r.db.QueryRowContext(ctx, query, userID, typ, pq.Array(categoryIDs),
		nullTime(period.Start), nullTime(period.End)).Scan(&total, &count)
	if err != nil {
		return money.Zero, 0, storageErr("sum category subset", err)
	}
	return total, count, nil
}
