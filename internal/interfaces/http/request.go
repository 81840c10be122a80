package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/respond"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidBody      = domain.Validation("Invalid request body", nil)
	errMethodNotAllowed = &domain.Error{Kind: "method_not_allowed", Message: "Method not allowed"}
)

// decodeJSON reads a single JSON object into v. With strict set, fields
// the target does not declare are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return errInvalidBody
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return domain.FieldError(typeErr.Field, "has the wrong type")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return domain.FieldError(field, "is not allowed")
		default:
			return domain.Validation("Invalid request body: "+err.Error(), nil)
		}
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter) {
	respond.JSON(w, http.StatusMethodNotAllowed, respond.ErrorBody{
		Error:   string(errMethodNotAllowed.Kind),
		Message: errMethodNotAllowed.Message,
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.FieldError("id", "must be a positive integer")
	}
	return id, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.FieldError(name, "must be an integer")
	}
	return n, nil
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.FieldError(name, "must be an integer")
	}
	return &n, nil
}

func queryEntryType(r *http.Request) (*domain.EntryType, error) {
	raw := r.URL.Query().Get("type")
	if raw == "" {
		return nil, nil
	}
	t, err := domain.ParseEntryType(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// queryTime parses an RFC 3339 timestamp. Values without an offset, including
// bare dates, are read in loc.
func queryTime(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}
	return nil, domain.FieldError(name, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
