package middleware

import (
	"context"
	"net/http"
	"strings"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/user"
	"driverfinance/internal/shared/respond"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	UserKey   contextKey = "user"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

var errNotAuthenticated = domain.Forbidden("not authenticated")

// Auth requires an "Authorization: Bearer <token>" header. A missing or
// malformed header is rejected with 403; token and account failures are
// reported by the authenticator's error kind (401).
func Auth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, errNotAuthenticated)
				return
			}

			u, err := a.Authenticate(r.Context(), token)
			if err != nil {
				respond.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, u)
			ctx = context.WithValue(ctx, UserIDKey, u.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserKey).(*user.User)
	return u, ok && u != nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
