package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driverfinance/internal/domain"
)

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", domain.FieldError("password", "must be at least 8 characters"), http.StatusUnprocessableEntity, "validation_error"},
		{"duplicate email", &domain.Error{Kind: domain.KindDuplicateEmail, Message: "email already registered"}, http.StatusBadRequest, "duplicate_email"},
		{"invalid credentials", &domain.Error{Kind: domain.KindInvalidCredentials, Message: "x"}, http.StatusUnauthorized, "invalid_credentials"},
		{"token expired", &domain.Error{Kind: domain.KindTokenExpired, Message: "x"}, http.StatusUnauthorized, "token_expired"},
		{"token invalid", &domain.Error{Kind: domain.KindTokenInvalid, Message: "x"}, http.StatusUnauthorized, "token_invalid"},
		{"user not found", &domain.Error{Kind: domain.KindUserNotFound, Message: "x"}, http.StatusUnauthorized, "user_not_found"},
		{"forbidden", domain.Forbidden("nope"), http.StatusForbidden, "forbidden"},
		{"not found", domain.NotFound("missing"), http.StatusNotFound, "not_found"},
		{"storage wrapped", fmt.Errorf("list: %w", domain.Storage("list", errors.New("dial tcp"))), http.StatusServiceUnavailable, "storage_unavailable"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Error(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorBody
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Error)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestError_HidesStorageDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, domain.Storage("get user", errors.New("password authentication failed for user driver")))

	assert.NotContains(t, rr.Body.String(), "password authentication")
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestError_IncludesFields(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, domain.Validation("invalid", map[string]string{"email": "is required"}))

	var body ErrorBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "is required", body.Fields["email"])
}
