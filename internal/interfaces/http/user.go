package http

import (
	"context"
	"log"
	"net/http"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/user"
	"driverfinance/internal/shared/middleware"
	"driverfinance/internal/shared/respond"
)

// ProfileService is the part of user.Service the /users routes need.
type ProfileService interface {
	UpdateProfile(ctx context.Context, current *user.User, params user.UpdateProfileParams) (*user.Profile, error)
	Deactivate(ctx context.Context, userID int64) error
	Lookup(ctx context.Context, current *user.User, id int64) (*user.Profile, error)
}

type UserHandler struct {
	users ProfileService
}

func NewUserHandler(users ProfileService) *UserHandler {
	return &UserHandler{users: users}
}

var errNoUser = domain.Forbidden("not authenticated")

// HandleMe serves GET, PUT and DELETE for the authenticated user.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, errNoUser)
		return
	}

	switch r.Method {
	case http.MethodGet:
		respond.JSON(w, http.StatusOK, current.Profile())
	case http.MethodPut, http.MethodPatch:
		h.handleUpdateMe(w, r, current)
	case http.MethodDelete:
		h.handleDeleteMe(w, r, current)
	default:
		methodNotAllowed(w)
	}
}

func (h *UserHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request, current *user.User) {
	var params user.UpdateProfileParams
	if err := decodeJSON(w, r, &params, true); err != nil {
		respond.Error(w, err)
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), current, params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, profile)
}

func (h *UserHandler) handleDeleteMe(w http.ResponseWriter, r *http.Request, current *user.User) {
	if err := h.users.Deactivate(r.Context(), current.ID); err != nil {
		respond.Error(w, err)
		return
	}

	log.Printf("User %d deactivated their account", current.ID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleByID returns another account's profile. Superusers only.
func (h *UserHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, errNoUser)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	profile, err := h.users.Lookup(r.Context(), current, id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, profile)
}
