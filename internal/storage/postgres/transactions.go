package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/ledger"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const transactionColumns = "id, user_id, account_id, description, amount, category, merchant, date, type, created_at"

// Sortable columns for transaction listings; anything else falls back to date.
var transactionSortColumns = map[string]string{
	"date":        "date",
	"amount":      "amount",
	"description": "description",
	"category":    "category",
	"type":        "type",
	"createdAt":   "created_at",
}

// CreateTransaction inserts a transaction and, when it names an account,
// applies its signed amount to that account's balance in the same database
// transaction. The balance change is an atomic increment, so concurrent
// writes against one account serialize on the row instead of losing updates.
func (s *Store) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	var created models.Transaction
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if t.AccountID != nil {
			if err := applyBalance(ctx, tx, t.UserID, *t.AccountID, ledger.Delta(t)); err != nil {
				return err
			}
		}
		query := fmt.Sprintf(`
			INSERT INTO transactions (id, user_id, account_id, description, amount, category, merchant, date, type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING %s;`, transactionColumns)
		row := tx.QueryRow(ctx, query,
			t.ID, t.UserID, t.AccountID, t.Description, t.Amount, t.Category, t.Merchant, t.Date, t.Type)
		var err error
		created, err = scanTransaction(row)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return created, nil
}

// ListTransactions returns a filtered, sorted, paginated slice of the
// user's transactions along with the total count matching the filter.
func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter storage.TransactionFilter) ([]models.Transaction, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AccountID != nil {
		where = append(where, "account_id = "+arg(*filter.AccountID))
	}
	if filter.Type != "" {
		where = append(where, "type = "+arg(filter.Type))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.StartDate != nil {
		where = append(where, "date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		where = append(where, "date <= "+arg(*filter.EndDate))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM transactions WHERE %s;`, whereClause)
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := transactionSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "date"
		if filter.SortBy == "" {
			filter.SortDesc = true
		}
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY %s %s`,
		transactionColumns, whereClause, sortColumn, direction)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(` LIMIT %s OFFSET %s`, arg(filter.Limit), arg((page-1)*filter.Limit))
	}

	rows, err := s.pool.Query(ctx, query+";", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}

// GetTransaction fetches one transaction constrained to its owner.
func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 AND user_id = $2;`, transactionColumns)
	return scanTransaction(s.pool.QueryRow(ctx, query, id, userID))
}

// UpdateTransaction rewrites a transaction in place. When the amount or
// type changes on an account-linked transaction, the old contribution is
// reversed and the new one applied to the account balance, all inside one
// database transaction so no partial apply is ever observable.
func (s *Store) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, patch storage.TransactionPatch) (models.Transaction, error) {
	var updated models.Transaction
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE;`, transactionColumns)
		old, err := scanTransaction(tx.QueryRow(ctx, query, id, userID))
		if err != nil {
			return err
		}

		next := old
		if patch.Description != nil {
			next.Description = *patch.Description
		}
		if patch.Amount != nil {
			next.Amount = *patch.Amount
		}
		if patch.Category != nil {
			next.Category = *patch.Category
		}
		if patch.Merchant != nil {
			next.Merchant = *patch.Merchant
		}
		if patch.Date != nil {
			next.Date = *patch.Date
		}
		if patch.Type != nil {
			next.Type = *patch.Type
		}

		if old.AccountID != nil {
			if delta := ledger.UpdateDelta(old, next); !delta.IsZero() {
				if err := applyBalance(ctx, tx, userID, *old.AccountID, delta); err != nil {
					return err
				}
			}
		}

		query = fmt.Sprintf(`
			UPDATE transactions
			SET description = $1, amount = $2, category = $3, merchant = $4, date = $5, type = $6
			WHERE id = $7 AND user_id = $8
			RETURNING %s;`, transactionColumns)
		updated, err = scanTransaction(tx.QueryRow(ctx, query,
			next.Description, next.Amount, next.Category, next.Merchant, next.Date, next.Type, id, userID))
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction, reversing its contribution to
// the linked account balance in the same database transaction.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	var deleted models.Transaction
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE;`, transactionColumns)
		old, err := scanTransaction(tx.QueryRow(ctx, query, id, userID))
		if err != nil {
			return err
		}

		if old.AccountID != nil {
			if err := applyBalance(ctx, tx, userID, *old.AccountID, ledger.Reversal(old)); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2;`, id, userID); err != nil {
			return err
		}
		deleted = old
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return deleted, nil
}

// applyBalance increments an account balance by a signed delta, constrained
// to the owning user. A miss means the referenced account does not exist
// for this user.
func applyBalance(ctx context.Context, tx pgx.Tx, userID, accountID uuid.UUID, delta decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE id = $2 AND user_id = $3;`,
		delta, accountID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAccountNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		t         models.Transaction
		accountID uuid.NullUUID
	)
	err := row.Scan(&t.ID, &t.UserID, &accountID, &t.Description, &t.Amount,
		&t.Category, &t.Merchant, &t.Date, &t.Type, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, err
	}
	if accountID.Valid {
		t.AccountID = &accountID.UUID
	}
	return t, nil
}
