package http

import (
	"context"
	"net/http"
	"time"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/analytics"
	"driverfinance/internal/shared/middleware"
	"driverfinance/internal/shared/respond"
)

type AnalyticsService interface {
	DailySummary(ctx context.Context, userID int64, date time.Time, loc *time.Location) (*analytics.DailySummary, error)
	MonthlySummary(ctx context.Context, userID int64, year, month int, loc *time.Location) (*analytics.MonthlySummary, error)
	MonthlyBreakdown(ctx context.Context, userID int64, endYear, endMonth, months int, loc *time.Location) (*analytics.MonthlyTrend, error)
	CategoryBreakdown(ctx context.Context, userID int64, typ *domain.EntryType, start, end *time.Time) ([]analytics.CategoryBreakdownEntry, error)
	FuelAnalytics(ctx context.Context, userID int64, start, end *time.Time) (*analytics.FuelSummary, error)
	OverallSummary(ctx context.Context, userID int64) (*analytics.OverallSummary, error)
}

type AnalyticsHandler struct {
	analytics  AnalyticsService
	defaultLoc *time.Location
	now        func() time.Time
}

// NewAnalyticsHandler builds the handler. Requests without a tz parameter
// use defaultLoc for calendar boundaries.
func NewAnalyticsHandler(svc AnalyticsService, defaultLoc *time.Location) *AnalyticsHandler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &AnalyticsHandler{analytics: svc, defaultLoc: defaultLoc, now: time.Now}
}

// analyticsRequest holds what every analytics route reads first.
type analyticsRequest struct {
	userID int64
	loc    *time.Location
}

func (h *AnalyticsHandler) begin(w http.ResponseWriter, r *http.Request) (analyticsRequest, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respond.Error(w, errNoUser)
		return analyticsRequest{}, false
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return analyticsRequest{}, false
	}
	loc, err := analytics.ParseLocation(r.URL.Query().Get("tz"), h.defaultLoc)
	if err != nil {
		respond.Error(w, err)
		return analyticsRequest{}, false
	}
	return analyticsRequest{userID: userID, loc: loc}, true
}

// HandleDaily summarizes one calendar day, today when date is omitted.
func (h *AnalyticsHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}

	date := h.now().In(req.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, req.loc)
		if err != nil {
			respond.Error(w, domain.FieldError("date", "must be a date (YYYY-MM-DD)"))
			return
		}
		date = d
	}

	summary, err := h.analytics.DailySummary(r.Context(), req.userID, date, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

// HandleMonthly summarizes one calendar month, the current one by default.
func (h *AnalyticsHandler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}

	year, month, err := h.yearMonth(r, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}

	summary, err := h.analytics.MonthlySummary(r.Context(), req.userID, year, month, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

// HandleMonthlyTrend returns the months ending at year/month with their
// running balance.
func (h *AnalyticsHandler) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}

	year, month, err := h.yearMonth(r, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}
	months, err := queryInt(r, "months", analytics.DefaultTrendMonths)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if months < 1 {
		respond.Error(w, domain.FieldError("months", "must be between 1 and 24"))
		return
	}

	trend, err := h.analytics.MonthlyBreakdown(r.Context(), req.userID, year, month, months, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, trend)
}

// HandleCategoryBreakdown groups totals by category over an optional range.
func (h *AnalyticsHandler) HandleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}

	typ, err := queryEntryType(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	start, end, err := queryRange(r, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}

	entries, err := h.analytics.CategoryBreakdown(r.Context(), req.userID, typ, start, end)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}

// HandleFuel summarizes fuel spending over an optional range.
func (h *AnalyticsHandler) HandleFuel(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}

	start, end, err := queryRange(r, req.loc)
	if err != nil {
		respond.Error(w, err)
		return
	}

	fuel, err := h.analytics.FuelAnalytics(r.Context(), req.userID, start, end)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, fuel)
}

// HandleSummary reports all-time totals.
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}

	summary, err := h.analytics.OverallSummary(r.Context(), req.userID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) yearMonth(r *http.Request, loc *time.Location) (int, int, error) {
	now := h.now().In(loc)
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func queryRange(r *http.Request, loc *time.Location) (*time.Time, *time.Time, error) {
	start, err := queryTime(r, "start_date", loc)
	if err != nil {
		return nil, nil, err
	}
	end, err := queryTime(r, "end_date", loc)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
