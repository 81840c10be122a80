package http

import (
	"context"
	"net/http"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/category"
	"driverfinance/internal/shared/middleware"
	"driverfinance/internal/shared/respond"
)

type CategoryService interface {
	List(ctx context.Context, userID int64, typ *domain.EntryType) ([]*category.Category, error)
	Get(ctx context.Context, userID, id int64) (*category.Category, error)
	Create(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error)
	Update(ctx context.Context, userID, id int64, params category.UpdateParams) (*category.Category, error)
	Delete(ctx context.Context, userID, id int64) error
}

type CategoryHandler struct {
	categories CategoryService
}

func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// HandleCategories lists visible categories or creates a user category.
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respond.Error(w, errNoUser)
		return
	}

	switch r.Method {
	case http.MethodGet:
		typ, err := queryEntryType(r)
		if err != nil {
			respond.Error(w, err)
			return
		}
		categories, err := h.categories.List(r.Context(), userID, typ)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, categories)
	case http.MethodPost:
		var params category.CreateParams
		if err := decodeJSON(w, r, &params, false); err != nil {
			respond.Error(w, err)
			return
		}
		c, err := h.categories.Create(r.Context(), userID, params)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, c)
	default:
		methodNotAllowed(w)
	}
}

// HandleCategoryByID reads, updates or deletes one category.
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
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
		c, err := h.categories.Get(r.Context(), userID, id)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, c)
	case http.MethodPut, http.MethodPatch:
		var params category.UpdateParams
		if err := decodeJSON(w, r, &params, false); err != nil {
			respond.Error(w, err)
			return
		}
		c, err := h.categories.Update(r.Context(), userID, id, params)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if err := h.categories.Delete(r.Context(), userID, id); err != nil {
			respond.Error(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
