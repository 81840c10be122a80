package http

import (
	"context"
	"log"
	"mime"
	"net/http"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/user"
	"driverfinance/internal/shared/auth"
	"driverfinance/internal/shared/respond"
)

// AuthService is the part of user.Service the public auth routes need.
type AuthService interface {
	Signup(ctx context.Context, params user.SignupParams) (*user.Profile, error)
	Login(ctx context.Context, email, password string) (*auth.Token, error)
}

type AuthHandler struct {
	users AuthService
}

func NewAuthHandler(users AuthService) *AuthHandler {
	return &AuthHandler{users: users}
}

// HandleSignup registers a new account and returns its profile.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var params user.SignupParams
	if err := decodeJSON(w, r, &params, false); err != nil {
		respond.Error(w, err)
		return
	}

	profile, err := h.users.Signup(r.Context(), params)
	if err != nil {
		if domain.KindOf(err) == domain.KindDuplicateEmail {
			log.Printf("Signup rejected: email already registered")
		}
		respond.Error(w, err)
		return
	}

	log.Printf("User %d signed up", profile.ID)
	respond.JSON(w, http.StatusCreated, profile)
}

// HandleLogin exchanges credentials for a bearer token. It takes the OAuth2
// password form (username, password) and also accepts a JSON body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	params, err := readLogin(w, r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := domain.Validate(params); err != nil {
		respond.Error(w, err)
		return
	}

	token, err := h.users.Login(r.Context(), params.Email, params.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, token)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func readLogin(w http.ResponseWriter, r *http.Request) (user.LoginParams, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req loginRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			return user.LoginParams{}, err
		}
		email := req.Username
		if email == "" {
			email = req.Email
		}
		return user.LoginParams{Email: email, Password: req.Password}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return user.LoginParams{}, errInvalidBody
	}
	return user.LoginParams{
		Email:    r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}, nil
}
