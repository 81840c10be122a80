package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("bytemax", byteMax)
	})
	return validate
}

// byteMax bounds the encoded length of a string, unlike max which counts
// runes. bcrypt rejects passwords longer than 72 bytes.
func byteMax(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Validate checks v against its `validate` struct tags and converts failures
// into a validation *Error keyed by JSON field name.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("invalid input", nil)
	}

	fields := make(map[string]string, len(verrs))
	var first string
	for _, fe := range verrs {
		reason := describe(fe)
		fields[fe.Field()] = reason
		if first == "" {
			first = fe.Field() + " " + reason
		}
	}
	return Validation(first, fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "bytemax":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "len", "hexcolor":
		return "must be a color in #RRGGBB form"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
