package postgres

import (
	"context"
	"database/sql"
	"errors"

	"driverfinance/internal/domain/transaction"
)

const transactionColumns = `id, user_id, category_id, type, amount, description, transaction_date, created_at, updated_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row interface{ Scan(...any) error }) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.Amount,
		&t.Description, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, userID int64, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, category_id, type, amount, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		userID, params.CategoryID, params.Type, params.Amount, params.Description, params.TransactionDate))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, transaction.ErrUnknownCategory
		}
		return nil, storageErr("create transaction", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}
		return nil, storageErr("get transaction", err)
	}
	return t, nil
}

// List returns the user's transactions newest first. Filter.Limit must
// already be normalized by the caller.
func (r *TransactionRepository) List(ctx context.Context, userID int64, filter transaction.Filter) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND ($2::text IS NULL OR type::text = $2)
		  AND ($3::bigint IS NULL OR category_id = $3)
		  AND ($4::timestamptz IS NULL OR transaction_date >= $4)
		  AND ($5::timestamptz IS NULL OR transaction_date < $5)
		ORDER BY transaction_date DESC, id DESC
		LIMIT $6 OFFSET $7`

	rows, err := r.db.QueryContext(ctx, query, userID,
		filter.Type, filter.CategoryID, filter.Start, filter.End, filter.Limit, filter.Skip)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	transactions := []*transaction.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storageErr("scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list transactions", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id int64, params transaction.UpdateParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions SET
			type = COALESCE($2::transaction_type, type),
			amount = COALESCE($3::numeric, amount),
			description = CASE WHEN $7::boolean THEN NULL ELSE COALESCE($4, description) END,
			transaction_date = COALESCE($5::timestamptz, transaction_date),
			category_id = CASE WHEN $8::boolean THEN NULL ELSE COALESCE($6::bigint, category_id) END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id,
		params.Type, params.Amount, params.Description, params.TransactionDate, params.CategoryID,
		params.ClearDescription, params.ClearCategory))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, transaction.ErrUnknownCategory
		}
		return nil, storageErr("update transaction", err)
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete transaction", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr("delete transaction", err)
	}
	if n == 0 {
		return transaction.ErrNotFound
	}
	return nil
}
