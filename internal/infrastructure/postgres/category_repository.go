package postgres

import (
	"context"
	"database/sql"
	"errors"

	"driverfinance/internal/domain"
	"driverfinance/internal/domain/category"
)

const categoryColumns = `id, user_id, name, type, color, icon, is_system, created_at`

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row interface{ Scan(...any) error }) (*category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsSystem, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon, is_system)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, params.Name, params.Type, params.Color, params.Icon))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, category.ErrNameTaken
		}
		return nil, storageErr("create category", err)
	}
	return c, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, storageErr("get category", err)
	}
	return c, nil
}

func (r *CategoryRepository) ListVisible(ctx context.Context, userID int64, typ *domain.EntryType) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE (user_id = $1 OR is_system)
		  AND ($2::text IS NULL OR type::text = $2)
		ORDER BY is_system DESC, name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, typ)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storageErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindOwned(ctx context.Context, userID int64, name string, typ domain.EntryType) (*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND lower(name) = lower($2) AND type::text = $3
		LIMIT 1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name, typ))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("find category", err)
	}
	return c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, params category.UpdateParams) (*category.Category, error) {
	query := `
		UPDATE categories SET
			name = COALESCE($2, name),
			type = COALESCE($3::category_type, type),
			color = COALESCE($4, color),
			icon = CASE WHEN $6::boolean THEN NULL ELSE COALESCE($5, icon) END
		WHERE id = $1 AND NOT is_system
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id,
		params.Name, params.Type, params.Color, params.Icon, params.ClearIcon))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, category.ErrNameTaken
		}
		return nil, storageErr("update category", err)
	}
	return c, nil
}

// Delete removes a user category. The foreign key sets category_id to NULL
// on the category's transactions.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND NOT is_system`, id)
	if err != nil {
		return storageErr("delete category", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("delete category", err)
	}
	if n == 0 {
		return category.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return false, storageErr("check category usage", err)
	}
	return inUse, nil
}

// SystemIDsMatching returns system categories whose name contains name,
// ignoring case.
func (r *CategoryRepository) SystemIDsMatching(ctx context.Context, name string, typ domain.EntryType) ([]int64, error) {
	query := `
		SELECT id FROM categories
		WHERE is_system AND type::text = $2 AND name ILIKE '%' || $1 || '%'
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, name, typ)
	if err != nil {
		return nil, storageErr("match system categories", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan category id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("match system categories", err)
	}
	return ids, nil
}

// EnsureSystem inserts the missing built-in categories. Existing rows are
// left alone so edits made directly in the database survive restarts.
func (r *CategoryRepository) EnsureSystem(ctx context.Context, categories []category.SystemCategory) (int, error) {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon, is_system)
		VALUES (NULL, $1, $2, $3, $4, TRUE)
		ON CONFLICT (name, type) WHERE user_id IS NULL DO NOTHING`

	added := 0
	for _, c := range categories {
		result, err := r.db.ExecContext(ctx, query, c.Name, c.Type, c.Color, c.Icon)
		if err != nil {
			return added, storageErr("seed system category", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return added, storageErr("seed system category", err)
		}
		added += int(n)
	}
	return added, nil
}
