package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can pick a status code
// without inspecting messages.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindTokenExpired       Kind = "token_expired"
	KindTokenInvalid       Kind = "token_invalid"
	KindUserNotFound       Kind = "user_not_found"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindStorageUnavailable Kind = "storage_unavailable"
)

// Error is the error type returned by every domain service.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps offending input fields to a short reason. Only set for
	// validation errors.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same kind. A target with a
// message only matches errors carrying that exact message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// FieldError is a validation error about a single input field.
func FieldError(field, reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s %s", field, reason),
		Fields:  map[string]string{field: reason},
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Storage wraps a persistence failure. The operation name ends up in logs,
// never in responses.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Message: op, Err: err}
}
