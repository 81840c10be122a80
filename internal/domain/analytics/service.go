package analytics

import (
	"cmp"
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/money"
)

// monthFetchLimit bounds the concurrent per-month queries of a breakdown.
const monthFetchLimit = 4

// Service computes read-only summaries. It holds no state between calls, so
// every result is a fresh snapshot of the store.
type Service struct {
	repo Repository
	fuel FuelCategories
}

func NewService(repo Repository, fuel FuelCategories) *Service {
	return &Service{repo: repo, fuel: fuel}
}

// DailySummary reports the calendar day of date in loc. Totals and the fuel
// subset are queried concurrently.
func (s *Service) DailySummary(ctx context.Context, userID int64, date time.Time, loc *time.Location) (*DailySummary, error) {
	if loc == nil {
		loc = time.UTC
	}
	period := DayPeriod(date, loc)

	var (
		totals Totals
		fuel   FuelSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.Totals(gctx, userID, period)
		return err
	})
	g.Go(func() error {
		var err error
		fuel, err = s.fuelSummary(gctx, userID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DailySummary{
		Date:                 date.Format(time.DateOnly),
		TotalIncome:          totals.IncomeTotal,
		IncomeCount:          totals.IncomeCount,
		TotalExpenses:        totals.ExpenseTotal,
		ExpenseCount:         totals.ExpenseCount,
		Balance:              totals.IncomeTotal.Sub(totals.ExpenseTotal),
		TotalTransactions:    totals.IncomeCount + totals.ExpenseCount,
		TotalFuelExpenses:    fuel.TotalFuelExpenses,
		FuelTransactionCount: fuel.FuelTransactionCount,
		AverageFuelExpense:   fuel.AverageFuelExpense,
	}, nil
}

func (s *Service) MonthlySummary(ctx context.Context, userID int64, year, month int, loc *time.Location) (*MonthlySummary, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	totals, err := s.repo.Totals(ctx, userID, MonthPeriod(year, time.Month(month), loc))
	if err != nil {
		return nil, err
	}
	return monthlyFromTotals(year, month, totals), nil
}

// MonthlyBreakdown returns the months ending at endYear/endMonth, oldest
// first, together with the running balance over them. A months value of 0
// selects DefaultTrendMonths.
func (s *Service) MonthlyBreakdown(ctx context.Context, userID int64, endYear, endMonth, months int, loc *time.Location) (*MonthlyTrend, error) {
	if err := validateYearMonth(endYear, endMonth); err != nil {
		return nil, err
	}
	if months == 0 {
		months = DefaultTrendMonths
	}
	if months < 1 || months > MaxTrendMonths {
		return nil, domain.FieldError("months", "must be between 1 and 24")
	}
	if loc == nil {
		loc = time.UTC
	}

	keys := make([]YearMonth, months)
	ym := YearMonth{Year: endYear, Month: time.Month(endMonth)}
	for i := months - 1; i >= 0; i-- {
		keys[i] = ym
		ym = ym.Prev()
	}
	if keys[0].Year < 1 {
		return nil, domain.FieldError("months", "reaches before year 1")
	}

	summaries := make([]MonthlySummary, months)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(monthFetchLimit)
	for i, key := range keys {
		g.Go(func() error {
			totals, err := s.repo.Totals(gctx, userID, MonthPeriod(key.Year, key.Month, loc))
			if err != nil {
				return err
			}
			summaries[i] = *monthlyFromTotals(key.Year, int(key.Month), totals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &MonthlyTrend{
		Months:         summaries,
		RunningBalance: RunningBalanceTrend(summaries),
	}, nil
}

// RunningBalanceTrend folds ordered monthly totals into a cumulative balance:
// each point is the previous balance plus that month's income minus its
// expenses, starting from zero.
func RunningBalanceTrend(buckets []MonthlySummary) []TrendPoint {
	points := make([]TrendPoint, len(buckets))
	balance := money.Zero
	for i, b := range buckets {
		balance = balance.Add(b.TotalIncome).Sub(b.TotalExpenses)
		points[i] = TrendPoint{Year: b.Year, Month: b.Month, Balance: balance}
	}
	return points
}

// CategoryBreakdown groups a range by category. Transactions without a
// category are reported in an "Uncategorized" bucket so the buckets always
// add up to the range total. Sorted by total descending, then name.
func (s *Service) CategoryBreakdown(ctx context.Context, userID int64, typ *domain.EntryType, start, end *time.Time) ([]CategoryBreakdownEntry, error) {
	if typ != nil && !typ.Valid() {
		return nil, domain.FieldError("type", "must be one of: income expense")
	}
	period, err := RangePeriod(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.CategoryTotals(ctx, userID, typ, period)
	if err != nil {
		return nil, err
	}

	entries := make([]CategoryBreakdownEntry, 0, len(rows))
	for _, r := range rows {
		e := CategoryBreakdownEntry{
			CategoryID:       r.CategoryID,
			CategoryName:     r.Name,
			CategoryType:     r.Type,
			CategoryColor:    r.Color,
			CategoryIcon:     r.Icon,
			Total:            r.Total,
			TransactionCount: r.Count,
		}
		if r.CategoryID == nil {
			e.CategoryName = UncategorizedName
			e.CategoryColor = UncategorizedColor
			e.CategoryIcon = nil
		}
		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, b CategoryBreakdownEntry) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CategoryName, b.CategoryName); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryType, b.CategoryType)
	})
	return entries, nil
}

// FuelAnalytics summarizes fuel spending over an optional range.
func (s *Service) FuelAnalytics(ctx context.Context, userID int64, start, end *time.Time) (*FuelSummary, error) {
	period, err := RangePeriod(start, end)
	if err != nil {
		return nil, err
	}
	fuel, err := s.fuelSummary(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	return &fuel, nil
}

// OverallSummary reports all-time totals.
func (s *Service) OverallSummary(ctx context.Context, userID int64) (*OverallSummary, error) {
	totals, err := s.repo.Totals(ctx, userID, AllTime)
	if err != nil {
		return nil, err
	}
	return &OverallSummary{
		TotalIncome:   totals.IncomeTotal,
		TotalExpenses: totals.ExpenseTotal,
		Balance:       totals.IncomeTotal.Sub(totals.ExpenseTotal),
	}, nil
}

func (s *Service) fuelSummary(ctx context.Context, userID int64, period Period) (FuelSummary, error) {
	ids, err := s.fuel.FuelCategoryIDs(ctx)
	if err != nil {
		return FuelSummary{}, err
	}
	if len(ids) == 0 {
		return FuelSummary{}, nil
	}

	total, count, err := s.repo.CategorySubsetTotal(ctx, userID, ids, domain.Expense, period)
	if err != nil {
		return FuelSummary{}, err
	}
	return FuelSummary{
		TotalFuelExpenses:    total,
		FuelTransactionCount: count,
		AverageFuelExpense:   total.Average(count),
	}, nil
}

func monthlyFromTotals(year, month int, t Totals) *MonthlySummary {
	return &MonthlySummary{
		Year:              year,
		Month:             month,
		TotalIncome:       t.IncomeTotal,
		IncomeCount:       t.IncomeCount,
		TotalExpenses:     t.ExpenseTotal,
		ExpenseCount:      t.ExpenseCount,
		Balance:           t.IncomeTotal.Sub(t.ExpenseTotal),
		TotalTransactions: t.IncomeCount + t.ExpenseCount,
	}
}

func validateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return domain.FieldError("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return domain.FieldError("year", "must be between 1 and 9999")
	}
	return nil
}
