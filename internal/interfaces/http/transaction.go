package http

import (
	"context"
	"net/http"
	"time"

	"driverfinance/internal/domain/analytics"
	"driverfinance/internal/domain/transaction"
	"driverfinance/internal/shared/middleware"
	"driverfinance/internal/shared/respond"
)

type TransactionService interface {
	Create(ctx context.Context, userID int64, params transaction.CreateParams) (*transaction.Transaction, error)
	List(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, error)
	Get(ctx context.Context, userID, id int64) (*transaction.Transaction, error)
	Update(ctx context.Context, userID, id int64, params transaction.UpdateParams) (*transaction.Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
}

// SummaryService reports all-time totals.
type SummaryService interface {
	OverallSummary(ctx context.Context, userID int64) (*analytics.OverallSummary, error)
}

type TransactionHandler struct {
	transactions TransactionService
	summary      SummaryService
	loc          *time.Location
}

// NewTransactionHandler builds the handler. Date-only filter values are read
// in loc.
func NewTransactionHandler(transactions TransactionService, summary SummaryService, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{transactions: transactions, summary: summary, loc: loc}
}

// HandleTransactions lists or creates transactions for the current user.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respond.Error(w, errNoUser)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		var params transaction.CreateParams
		if err := decodeJSON(w, r, &params, false); err != nil {
			respond.Error(w, err)
			return
		}
		t, err := h.transactions.Create(r.Context(), userID, params)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, t)
	default:
		methodNotAllowed(w)
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := h.readFilter(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	transactions, err := h.transactions.List(r.Context(), userID, filter)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) readFilter(r *http.Request) (transaction.Filter, error) {
	var (
		f   transaction.Filter
		err error
	)
	if f.Type, err = queryEntryType(r); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		return f, err
	}
	if f.Start, err = queryTime(r, "start_date", h.loc); err != nil {
		return f, err
	}
	if f.End, err = queryTime(r, "end_date", h.loc); err != nil {
		return f, err
	}
	if f.Skip, err = queryInt(r, "skip", 0); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit", transaction.DefaultLimit); err != nil {
		return f, err
	}
	return f, nil
}

// HandleSummary reports all-time income, expenses and balance.
func (h *TransactionHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respond.Error(w, errNoUser)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	summary, err := h.summary.OverallSummary(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

// HandleTransactionByID reads, updates or deletes one transaction.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respond.Error(w, errNoUser)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := h.transactions.Get(r.Context(), userID, id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, t)
	case http.MethodPut, http.MethodPatch:
		var params transaction.UpdateParams
		if err := decodeJSON(w, r, &params, false); err != nil {
			respond.Error(w, err)
			return
		}
		t, err := h.transactions.Update(r.Context(), userID, id, params)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, t)
	case http.MethodDelete:
		if err := h.transactions.Delete(r.Context(), userID, id); err != nil {
			respond.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
