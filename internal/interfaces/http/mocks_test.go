package http

import (
	"context"
	"net/http"
	"time"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/analytics"
	"driverfinance/internal/domain/category"
	"driverfinance/internal/domain/transaction"
	"driverfinance/internal/domain/user"
	"driverfinance/internal/shared/auth"
	"driverfinance/internal/shared/middleware"
)

// MockUserService implements AuthService and ProfileService for testing
type MockUserService struct {
	SignupFunc        func(ctx context.Context, params user.SignupParams) (*user.Profile, error)
	LoginFunc         func(ctx context.Context, email, password string) (*auth.Token, error)
	UpdateProfileFunc func(ctx context.Context, current *user.User, params user.UpdateProfileParams) (*user.Profile, error)
	DeactivateFunc    func(ctx context.Context, userID int64) error
	LookupFunc        func(ctx context.Context, current *user.User, id int64) (*user.Profile, error)
}

func (m *MockUserService) Signup(ctx context.Context, params user.SignupParams) (*user.Profile, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, current *user.User, params user.UpdateProfileParams) (*user.Profile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, current, params)
	}
	return nil, nil
}

func (m *MockUserService) Deactivate(ctx context.Context, userID int64) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, userID)
	}
	return nil
}

func (m *MockUserService) Lookup(ctx context.Context, current *user.User, id int64) (*user.Profile, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, current, id)
	}
	return nil, nil
}

// MockCategoryService implements CategoryService for testing
type MockCategoryService struct {
	ListFunc   func(ctx context.Context, userID int64, typ *domain.EntryType) ([]*category.Category, error)
	GetFunc    func(ctx context.Context, userID, id int64) (*category.Category, error)
	CreateFunc func(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error)
	UpdateFunc func(ctx context.Context, userID, id int64, params category.UpdateParams) (*category.Category, error)
	DeleteFunc func(ctx context.Context, userID, id int64) error
}

func (m *MockCategoryService) List(ctx context.Context, userID int64, typ *domain.EntryType) ([]*category.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, typ)
	}
	return nil, nil
}

func (m *MockCategoryService) Get(ctx context.Context, userID, id int64) (*category.Category, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *MockCategoryService) Create(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return nil, nil
}

func (m *MockCategoryService) Update(ctx context.Context, userID, id int64, params category.UpdateParams) (*category.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func (m *MockCategoryService) Delete(ctx context.Context, userID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

// MockTransactionService implements TransactionService for testing
type MockTransactionService struct {
	CreateFunc func(ctx context.Context, userID int64, params transaction.CreateParams) (*transaction.Transaction, error)
	ListFunc   func(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, error)
	GetFunc    func(ctx context.Context, userID, id int64) (*transaction.Transaction, error)
	UpdateFunc func(ctx context.Context, userID, id int64, params transaction.UpdateParams) (*transaction.Transaction, error)
	DeleteFunc func(ctx context.Context, userID, id int64) error
}

func (m *MockTransactionService) Create(ctx context.Context, userID int64, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return nil, nil
}

func (m *MockTransactionService) List(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	return nil, nil
}

func (m *MockTransactionService) Get(ctx context.Context, userID, id int64) (*transaction.Transaction, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *MockTransactionService) Update(ctx context.Context, userID, id int64, params transaction.UpdateParams) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func (m *MockTransactionService) Delete(ctx context.Context, userID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

// MockAnalyticsService implements AnalyticsService and SummaryService for testing
type MockAnalyticsService struct {
	DailySummaryFunc      func(ctx context.Context, userID int64, date time.Time, loc *time.Location) (*analytics.DailySummary, error)
	MonthlySummaryFunc    func(ctx context.Context, userID int64, year, month int, loc *time.Location) (*analytics.MonthlySummary, error)
	MonthlyBreakdownFunc  func(ctx context.Context, userID int64, endYear, endMonth, months int, loc *time.Location) (*analytics.MonthlyTrend, error)
	CategoryBreakdownFunc func(ctx context.Context, userID int64, typ *domain.EntryType, start, end *time.Time) ([]analytics.CategoryBreakdownEntry, error)
	FuelAnalyticsFunc     func(ctx context.Context, userID int64, start, end *time.Time) (*analytics.FuelSummary, error)
	OverallSummaryFunc    func(ctx context.Context, userID int64) (*analytics.OverallSummary, error)
}

func (m *MockAnalyticsService) DailySummary(ctx context.Context, userID int64, date time.Time, loc *time.Location) (*analytics.DailySummary, error) {
	if m.DailySummaryFunc != nil {
		return m.DailySummaryFunc(ctx, userID, date, loc)
	}
	return &analytics.DailySummary{}, nil
}

func (m *MockAnalyticsService) MonthlySummary(ctx context.Context, userID int64, year, month int, loc *time.Location) (*analytics.MonthlySummary, error) {
	if m.MonthlySummaryFunc != nil {
		return m.MonthlySummaryFunc(ctx, userID, year, month, loc)
	}
	return &analytics.MonthlySummary{}, nil
}

func (m *MockAnalyticsService) MonthlyBreakdown(ctx context.Context, userID int64, endYear, endMonth, months int, loc *time.Location) (*analytics.MonthlyTrend, error) {
	if m.MonthlyBreakdownFunc != nil {
		return m.MonthlyBreakdownFunc(ctx, userID, endYear, endMonth, months, loc)
	}
	return &analytics.MonthlyTrend{}, nil
}

func (m *MockAnalyticsService) CategoryBreakdown(ctx context.Context, userID int64, typ *domain.EntryType, start, end *time.Time) ([]analytics.CategoryBreakdownEntry, error) {
	if m.CategoryBreakdownFunc != nil {
		return m.CategoryBreakdownFunc(ctx, userID, typ, start, end)
	}
	return []analytics.CategoryBreakdownEntry{}, nil
}

func (m *MockAnalyticsService) FuelAnalytics(ctx context.Context, userID int64, start, end *time.Time) (*analytics.FuelSummary, error) {
	if m.FuelAnalyticsFunc != nil {
		return m.FuelAnalyticsFunc(ctx, userID, start, end)
	}
	return &analytics.FuelSummary{}, nil
}

func (m *MockAnalyticsService) OverallSummary(ctx context.Context, userID int64) (*analytics.OverallSummary, error) {
	if m.OverallSummaryFunc != nil {
		return m.OverallSummaryFunc(ctx, userID)
	}
	return &analytics.OverallSummary{}, nil
}

// withUser attaches u to the request the way middleware.Auth does.
func withUser(req *http.Request, u *user.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserKey, u)
	ctx = context.WithValue(ctx, middleware.UserIDKey, u.ID)
	return req.WithContext(ctx)
}

func testUser() *user.User {
	return &user.User{
		ID:             1,
		Email:          "driver@example.com",
		HashedPassword: "$2a$10$secret",
		IsActive:       true,
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
