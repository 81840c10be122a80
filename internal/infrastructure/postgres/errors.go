package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"driverfinance/internal/domain"
)

const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
	numericOutOfRange   = pq.ErrorCode("22003")
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pqCode(err) == uniqueViolation }
func isForeignKeyViolation(err error) bool { return pqCode(err) == foreignKeyViolation }

// storageErr marks a driver failure as retryable storage unavailability,
// except for values the column cannot hold, which are the caller's fault.
func storageErr(op string, err error) error {
	if pqCode(err) == numericOutOfRange {
		return &domain.Error{Kind: domain.KindValidation, Message: "value out of range", Err: err}
	}
	return domain.Storage(op, err)
}

// nullTime maps a zero time to SQL NULL, which the aggregate queries read as
// an open bound.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
