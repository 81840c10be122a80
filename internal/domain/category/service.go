package category

import (
	"context"
	"strings"

	"driverfinance/internal/domain"
)

var (
	ErrNotFound      = domain.NotFound("Category not found")
	ErrForbidden     = domain.Forbidden("Not enough permissions to access this category")
	ErrSystemManaged = domain.Forbidden("System categories cannot be modified")
	ErrNameTaken     = domain.Validation("Category with this name and type already exists",
		map[string]string{"name": "already exists for this type"})
	ErrNothingToUpdate = domain.Validation("at least one field must be provided", nil)
	ErrTypeInUse       = domain.FieldError("type", "cannot change while transactions use this category")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the system catalogue plus the user's own categories, system
// first, then by name.
func (s *Service) List(ctx context.Context, userID int64, typ *domain.EntryType) ([]*Category, error) {
	if typ != nil && !typ.Valid() {
		return nil, domain.FieldError("type", "must be one of: income expense")
	}
	return s.repo.ListVisible(ctx, userID, typ)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.VisibleTo(userID) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Category, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Color == "" {
		params.Color = DefaultColor
	}
	if err := domain.Validate(params); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindOwned(ctx, userID, params.Name, params.Type)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	return s.repo.Create(ctx, userID, params)
}

func (s *Service) Update(ctx context.Context, userID, id int64, params UpdateParams) (*Category, error) {
	if params.Name == nil && params.Type == nil && params.Color == nil && params.Icon == nil && !params.ClearIcon {
		return nil, ErrNothingToUpdate
	}
	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		params.Name = &trimmed
	}
	if err := domain.Validate(params); err != nil {
		return nil, err
	}

	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name, typ := c.Name, c.Type
	if params.Name != nil {
		name = *params.Name
	}
	if params.Type != nil {
		typ = *params.Type
	}
	if typ != c.Type {
		inUse, err := s.repo.InUse(ctx, id)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, ErrTypeInUse
		}
	}
	if name != c.Name || typ != c.Type {
		existing, err := s.repo.FindOwned(ctx, userID, name, typ)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != c.ID {
			return nil, ErrNameTaken
		}
	}

	return s.repo.Update(ctx, id, params)
}

// Delete removes a user category. Its transactions become uncategorized.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// EnsureSystem inserts any missing built-in categories and reports how many
// were added.
func (s *Service) EnsureSystem(ctx context.Context) (int, error) {
	return s.repo.EnsureSystem(ctx, SystemCategories)
}

func (s *Service) owned(ctx context.Context, userID, id int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsSystem {
		return nil, ErrSystemManaged
	}
	if c.UserID == nil || *c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

// FuelResolver finds the system expense categories that count as fuel.
type FuelResolver struct {
	repo Repository
	name string
}

func NewFuelResolver(repo Repository, name string) *FuelResolver {
	return &FuelResolver{repo: repo, name: name}
}

func (f *FuelResolver) FuelCategoryIDs(ctx context.Context) ([]int64, error) {
	return f.repo.SystemIDsMatching(ctx, f.name, domain.Expense)
}
