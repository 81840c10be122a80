package postgres

import (
	"context"
	"database/sql"
	"errors"

	"driverfinance/internal/domain/user"
)

const userColumns = `id, email, hashed_password, full_name, is_active, is_superuser, created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName,
		&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	query := `
		INSERT INTO users (email, hashed_password, full_name)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, params.Email, params.HashedPassword, params.FullName))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, storageErr("create user", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, storageErr("get user by email", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, userID int64, params user.UpdateUserParams) (*user.User, error) {
	query := `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			hashed_password = COALESCE($3, hashed_password),
			is_active = COALESCE($4, is_active),
			is_superuser = COALESCE($5, is_superuser),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID,
		params.FullName, params.HashedPassword, params.IsActive, params.IsSuperuser))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, storageErr("update user", err)
	}
	return u, nil
}
