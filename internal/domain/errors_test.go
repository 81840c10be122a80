package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKindAndMessage(t *testing.T) {
	sentinel := &Error{Kind: KindDuplicateEmail, Message: "email already registered"}
	wrapped := fmt.Errorf("signup: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(wrapped, &Error{Kind: KindDuplicateEmail}))
	assert.False(t, errors.Is(wrapped, &Error{Kind: KindValidation}))
	assert.False(t, errors.Is(wrapped, &Error{Kind: KindDuplicateEmail, Message: "other"}))
}

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list: %w", Storage("list transactions", cause))

	assert.Equal(t, KindStorageUnavailable, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Kind(""), KindOf(cause))
}

type signupInput struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName *string `json:"full_name" validate:"omitempty,max=5"`
	Color    string  `json:"color" validate:"omitempty,len=7,hexcolor"`
}

func TestValidate(t *testing.T) {
	long := "abcdefgh"

	tests := []struct {
		name       string
		input      signupInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: signupInput{Email: "a@b.com", Password: "12345678"},
		},
		{
			name:       "bad email and short password",
			input:      signupInput{Email: "nope", Password: "123"},
			wantFields: []string{"email", "password"},
		},
		{
			name:       "optional pointer too long",
			input:      signupInput{Email: "a@b.com", Password: "12345678", FullName: &long},
			wantFields: []string{"full_name"},
		},
		{
			name:       "short hex color rejected",
			input:      signupInput{Email: "a@b.com", Password: "12345678", Color: "#fff"},
			wantFields: []string{"color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var de *Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, KindValidation, de.Kind)
			for _, f := range tt.wantFields {
				assert.Contains(t, de.Fields, f)
			}
		})
	}
}

func TestParseEntryType(t *testing.T) {
	got, err := ParseEntryType("expense")
	require.NoError(t, err)
	assert.Equal(t, Expense, got)

	_, err = ParseEntryType("transfer")
	assert.Equal(t, KindValidation, KindOf(err))
}
