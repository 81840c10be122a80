package transaction

import (
	"context"
	"errors"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/category"
	"driverfinance/internal/shared/money"
)

var (
	ErrNotFound          = domain.NotFound("Transaction not found")
	ErrForbidden         = domain.Forbidden("Not enough permissions to access this transaction")
	ErrNothingToUpdate   = domain.Validation("at least one field must be provided", nil)
	ErrAmountNotPositive = domain.FieldError("amount", "must be greater than 0")
	ErrAmountTooLarge    = domain.FieldError("amount", "must be at most "+MaxAmount.String())
	ErrUnknownCategory   = domain.FieldError("category_id", "does not exist")
	ErrCategoryMismatch  = domain.FieldError("category_id", "category type must match transaction type")
)

// CategoryReader is the part of the category catalogue the store needs.
type CategoryReader interface {
	Get(ctx context.Context, userID, id int64) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryReader
}

func NewService(repo Repository, categories CategoryReader) *Service {
	return &Service{repo: repo, categories: categories}
}

// Create stores a transaction. The amount is rounded to two places here and
// nowhere else.
func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Transaction, error) {
	if err := domain.Validate(params); err != nil {
		return nil, err
	}
	params.Amount = params.Amount.Round()
	if err := checkAmount(params.Amount); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, params.CategoryID, params.Type); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, userID, params)
}

func (s *Service) List(ctx context.Context, userID int64, filter Filter) ([]*Transaction, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, domain.FieldError("type", "must be one of: income expense")
	}
	if filter.Skip < 0 {
		return nil, domain.FieldError("skip", "must not be negative")
	}
	if filter.Start != nil && filter.End != nil && !filter.Start.Before(*filter.End) {
		return nil, domain.FieldError("end_date", "must be after start_date")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultLimit
	case filter.Limit > MaxLimit:
		filter.Limit = MaxLimit
	}

	return s.repo.List(ctx, userID, filter)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrForbidden
	}
	return t, nil
}

// Update applies a partial change. The category rule is checked against the
// values the row will have afterwards.
func (s *Service) Update(ctx context.Context, userID, id int64, params UpdateParams) (*Transaction, error) {
	if params.empty() {
		return nil, ErrNothingToUpdate
	}
	if err := domain.Validate(params); err != nil {
		return nil, err
	}
	if params.Amount != nil {
		rounded := params.Amount.Round()
		if err := checkAmount(rounded); err != nil {
			return nil, err
		}
		params.Amount = &rounded
	}

	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	typ := current.Type
	if params.Type != nil {
		typ = *params.Type
	}
	categoryID := current.CategoryID
	switch {
	case params.ClearCategory:
		categoryID = nil
	case params.CategoryID != nil:
		categoryID = params.CategoryID
	}
	if params.Type != nil || params.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, categoryID, typ); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// checkAmount expects an already rounded amount.
func checkAmount(a money.Amount) error {
	switch {
	case !a.IsPositive():
		return ErrAmountNotPositive
	case a.Cmp(MaxAmount) > 0:
		return ErrAmountTooLarge
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, userID int64, categoryID *int64, typ domain.EntryType) error {
	if categoryID == nil {
		return nil
	}
	c, err := s.categories.Get(ctx, userID, *categoryID)
	switch {
	case errors.Is(err, category.ErrNotFound), errors.Is(err, category.ErrForbidden):
		return ErrUnknownCategory
	case err != nil:
		return err
	}
	if c.Type != typ {
		return ErrCategoryMismatch
	}
	return nil
}
