// Package respond writes JSON bodies and maps domain error kinds to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"driverfinance/internal/domain"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// StatusFor returns the HTTP status used for a domain error kind.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindDuplicateEmail:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindTokenExpired,
		domain.KindTokenInvalid, domain.KindUserNotFound:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error renders err. Errors that are not *domain.Error are logged and
// reported as a generic 500.
func Error(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		log.Printf("Unhandled error: %v", err)
		JSON(w, http.StatusInternalServerError, ErrorBody{
			Error:   "internal_error",
			Message: "internal server error",
		})
		return
	}

	status := StatusFor(de.Kind)
	body := ErrorBody{Error: string(de.Kind), Message: de.Message, Fields: de.Fields}

	switch status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
	case http.StatusServiceUnavailable:
		log.Printf("Storage unavailable: %v", err)
		w.Header().Set("Retry-After", "1")
		body.Message = "storage temporarily unavailable"
	}

	JSON(w, status, body)
}
