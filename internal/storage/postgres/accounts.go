package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const accountColumns = "id, user_id, name, type, balance, last_four_digits, created_at"

// CreateAccount inserts a new account for its owning user.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	query := fmt.Sprintf(`
		INSERT INTO accounts (id, user_id, name, type, balance, last_four_digits)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s;`, accountColumns)
	row := s.pool.QueryRow(ctx, query,
		account.ID, account.UserID, account.Name, account.Type, account.Balance, account.LastFourDigits)
	return scanAccount(row)
}

// ListAccounts returns all accounts owned by the user, oldest first.
func (s *Store) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = $1 ORDER BY created_at;`, accountColumns)
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount fetches one account constrained to its owner.
func (s *Store) GetAccount(ctx context.Context, userID, id uuid.UUID) (models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 AND user_id = $2;`, accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, id, userID))
}

// UpdateAccount applies a typed partial update constrained to the owner.
func (s *Store) UpdateAccount(ctx context.Context, userID, id uuid.UUID, patch storage.AccountPatch) (models.Account, error) {
	var b setBuilder
	if patch.Name != nil {
		b.add("name", *patch.Name)
	}
	if patch.Type != nil {
		b.add("type", *patch.Type)
	}
	if patch.Balance != nil {
		b.add("balance", *patch.Balance)
	}
	if patch.LastFourDigits != nil {
		b.add("last_four_digits", *patch.LastFourDigits)
	}
	if b.empty() {
		return s.GetAccount(ctx, userID, id)
	}
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = %s AND user_id = %s RETURNING %s;`,
		b.setClause(), b.next(id), b.next(userID), accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, b.args...))
}

// DeleteAccount removes an account and returns the deleted row.
// Transactions that referenced it keep their history with the link nulled.
func (s *Store) DeleteAccount(ctx context.Context, userID, id uuid.UUID) (models.Account, error) {
	query := fmt.Sprintf(`DELETE FROM accounts WHERE id = $1 AND user_id = $2 RETURNING %s;`, accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, id, userID))
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.LastFourDigits, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}
