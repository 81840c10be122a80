package category

import (
	"encoding/json"
	"time"

	"driverfinance/internal/domain"
)

const DefaultColor = "#6B7280"

type Category struct {
	ID        int64            `json:"id"`
	UserID    *int64           `json:"user_id"`
	Name      string           `json:"name"`
	Type      domain.EntryType `json:"type"`
	Color     string           `json:"color"`
	Icon      *string          `json:"icon"`
	IsSystem  bool             `json:"is_system"`
	CreatedAt time.Time        `json:"created_at"`
}

// VisibleTo reports whether userID may read the category.
func (c *Category) VisibleTo(userID int64) bool {
	return c.IsSystem || (c.UserID != nil && *c.UserID == userID)
}

type CreateParams struct {
	Name  string           `json:"name" validate:"required,min=1,max=100"`
	Type  domain.EntryType `json:"type" validate:"required,oneof=income expense"`
	Color string           `json:"color" validate:"omitempty,len=7,hexcolor"`
	Icon  *string          `json:"icon" validate:"omitempty,max=50"`
}

// UpdateParams leaves nil fields unchanged; "icon": null removes the icon.
type UpdateParams struct {
	Name  *string           `json:"name" validate:"omitempty,min=1,max=100"`
	Type  *domain.EntryType `json:"type" validate:"omitempty,oneof=income expense"`
	Color *string           `json:"color" validate:"omitempty,len=7,hexcolor"`
	Icon  *string           `json:"icon" validate:"omitempty,max=50"`

	ClearIcon bool `json:"-"`
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
	p.ClearIcon = nulls["icon"]
	return nil
}

// SystemCategory describes a built-in category shared by every user.
type SystemCategory struct {
	Name  string
	Type  domain.EntryType
	Color string
	Icon  string
}

// SystemCategories is the built-in catalogue, seeded idempotently at startup
// and by the admin CLI.
var SystemCategories = []SystemCategory{
	{"Combustível", domain.Expense, "#F59E0B", "gas-station"},
	{"Manutenção do Veículo", domain.Expense, "#EF4444", "car-wrench"},
	{"Pedágios", domain.Expense, "#6366F1", "road"},
	{"Estacionamento", domain.Expense, "#8B5CF6", "parking"},
	{"Seguro do Veículo", domain.Expense, "#EC4899", "shield-car"},
	{"IPVA", domain.Expense, "#14B8A6", "file-document"},
	{"Alimentação", domain.Expense, "#10B981", "food"},
	{"Outros", domain.Expense, "#6B7280", "dots-horizontal"},
	{"Corridas", domain.Income, "#22C55E", "car"},
	{"Entregas", domain.Income, "#3B82F6", "package-variant"},
	{"Gorjetas", domain.Income, "#FBBF24", "cash"},
	{"Bônus", domain.Income, "#A855F7", "star"},
	{"Outros", domain.Income, "#6B7280", "cash-plus"},
}
