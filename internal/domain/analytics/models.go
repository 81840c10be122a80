package analytics

import (
	"time"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/money"
)

const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24

	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#9CA3AF"
)

// Totals are the raw per-type sums for a period.
type Totals struct {
	IncomeTotal  money.Amount
	IncomeCount  int64
	ExpenseTotal money.Amount
	ExpenseCount int64
}

// CategoryTotal is one grouped row from storage. A nil CategoryID means the
// transactions had no category.
type CategoryTotal struct {
	CategoryID *int64
	Name       string
	Type       domain.EntryType
	Color      string
	Icon       *string
	Total      money.Amount
	Count      int64
}

type DailySummary struct {
	Date                 string       `json:"date"`
	TotalIncome          money.Amount `json:"total_income"`
	IncomeCount          int64        `json:"income_count"`
	TotalExpenses        money.Amount `json:"total_expenses"`
	ExpenseCount         int64        `json:"expense_count"`
	Balance              money.Amount `json:"balance"`
	TotalTransactions    int64        `json:"total_transactions"`
	TotalFuelExpenses    money.Amount `json:"total_fuel_expenses"`
	FuelTransactionCount int64        `json:"fuel_transaction_count"`
	AverageFuelExpense   money.Amount `json:"average_fuel_expense"`
}

type MonthlySummary struct {
	Year              int          `json:"year"`
	Month             int          `json:"month"`
	TotalIncome       money.Amount `json:"total_income"`
	IncomeCount       int64        `json:"income_count"`
	TotalExpenses     money.Amount `json:"total_expenses"`
	ExpenseCount      int64        `json:"expense_count"`
	Balance           money.Amount `json:"balance"`
	TotalTransactions int64        `json:"total_transactions"`
}

type TrendPoint struct {
	Year    int          `json:"year"`
	Month   int          `json:"month"`
	Balance money.Amount `json:"balance"`
}

type MonthlyTrend struct {
	Months         []MonthlySummary `json:"months"`
	RunningBalance []TrendPoint     `json:"running_balance"`
}

type CategoryBreakdownEntry struct {
	CategoryID       *int64           `json:"category_id"`
	CategoryName     string           `json:"category_name"`
	CategoryType     domain.EntryType `json:"category_type"`
	CategoryColor    string           `json:"category_color"`
	CategoryIcon     *string          `json:"category_icon"`
	Total            money.Amount     `json:"total"`
	TransactionCount int64            `json:"transaction_count"`
}

type FuelSummary struct {
	TotalFuelExpenses    money.Amount `json:"total_fuel_expenses"`
	FuelTransactionCount int64        `json:"fuel_transaction_count"`
	AverageFuelExpense   money.Amount `json:"average_fuel_expense"`
}

type OverallSummary struct {
	TotalIncome   money.Amount `json:"total_income"`
	TotalExpenses money.Amount `json:"total_expenses"`
	Balance       money.Amount `json:"balance"`
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Prev returns the month before ym.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}
