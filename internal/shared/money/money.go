// Package money holds the fixed-point amount type used for every stored or
// reported sum.
package money

import (
	"bytes"
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits money is stored and reported with.
const Places = 2

// Amount is a decimal money value. The zero value is 0.00.
type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

// FromDecimal wraps d without rounding.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// FromCents builds an exact amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -Places)}
}

// Parse reads a decimal string such as "12.50". The result is not rounded.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Round rounds to two places, half away from zero. For the positive amounts
// this system stores that is half-up: 19.995 becomes 20.00.
func (a Amount) Round() Amount {
	return Amount{d: a.d.Round(Places)}
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Average divides by n and rounds the result. It returns Zero when n is 0.
func (a Amount) Average(n int64) Amount {
	if n == 0 {
		return Zero
	}
	return Amount{d: a.d.Div(decimal.NewFromInt(n))}.Round()
}

func (a Amount) IsPositive() bool         { return a.d.IsPositive() }
func (a Amount) IsZero() bool             { return a.d.IsZero() }
func (a Amount) Cmp(b Amount) int         { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool      { return a.d.Equal(b.d) }
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String formats with exactly two places.
func (a Amount) String() string {
	return a.d.StringFixed(Places)
}

// MarshalJSON emits a bare JSON number with two places, e.g. 45.50.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	data = bytes.Trim(data, `"`)
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	a.d = d
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (a *Amount) Scan(value any) error {
	if value == nil {
		a.d = decimal.Zero
		return nil
	}
	return a.d.Scan(value)
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.d.StringFixed(Places), nil
}
