package transaction

import (
	"encoding/json"
	"time"

	"driverfinance/internal/domain"
	"driverfinance/internal/shared/money"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// MaxAmount is the largest value the NUMERIC(10,2) amount column holds.
var MaxAmount = money.MustParse("99999999.99")

type Transaction struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	CategoryID      *int64           `json:"category_id"`
	Type            domain.EntryType `json:"type"`
	Amount          money.Amount     `json:"amount"`
	Description     *string          `json:"description"`
	TransactionDate time.Time        `json:"transaction_date"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type CreateParams struct {
	Type            domain.EntryType `json:"type" validate:"required,oneof=income expense"`
	Amount          money.Amount     `json:"amount"`
	Description     *string          `json:"description" validate:"omitempty,max=500"`
	TransactionDate time.Time        `json:"transaction_date" validate:"required"`
	CategoryID      *int64           `json:"category_id" validate:"omitempty,gt=0"`
}

// UpdateParams leaves nil fields unchanged. An explicit JSON null for
// category_id or description clears the column.
type UpdateParams struct {
	Type            *domain.EntryType `json:"type" validate:"omitempty,oneof=income expense"`
	Amount          *money.Amount     `json:"amount"`
	Description     *string           `json:"description" validate:"omitempty,max=500"`
	TransactionDate *time.Time        `json:"transaction_date"`
	CategoryID      *int64            `json:"category_id" validate:"omitempty,gt=0"`

	ClearDescription bool `json:"-"`
	ClearCategory    bool `json:"-"`
}

func (p *UpdateParams) UnmarshalJSON(data []byte) error {
	type plain UpdateParams
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	nulls, err := domain.NullFields(data)
	if err != nil {
		return err
	}
	p.ClearDescription = nulls["description"]
	p.ClearCategory = nulls["category_id"]
	return nil
}

func (p UpdateParams) empty() bool {
	return p.Type == nil && p.Amount == nil && p.Description == nil &&
		p.TransactionDate == nil && p.CategoryID == nil &&
		!p.ClearDescription && !p.ClearCategory
}

// Filter narrows List. Start is inclusive and End exclusive.
type Filter struct {
	Type       *domain.EntryType
	CategoryID *int64
	Start      *time.Time
	End        *time.Time
	Skip       int
	Limit      int
}
