package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const budgetColumns = "id, user_id, category, amount, period, created_at"

// CreateBudget inserts a new budget for its owning user.
func (s *Store) CreateBudget(ctx context.Context, budget models.Budget) (models.Budget, error) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	query := fmt.Sprintf(`
		INSERT INTO budgets (id, user_id, category, amount, period)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s;`, budgetColumns)
	row := s.pool.QueryRow(ctx, query,
		budget.ID, budget.UserID, budget.Category, budget.Amount, budget.Period)
	return scanBudget(row)
}

// ListBudgets returns the user's budgets, oldest first.
func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID, filter storage.BudgetFilter) ([]models.Budget, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		where = append(where, fmt.Sprintf("period = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM budgets WHERE %s ORDER BY created_at;`,
		budgetColumns, strings.Join(where, " AND "))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// GetBudget fetches one budget constrained to its owner.
func (s *Store) GetBudget(ctx context.Context, userID, id uuid.UUID) (models.Budget, error) {
	query := fmt.Sprintf(`SELECT %s FROM budgets WHERE id = $1 AND user_id = $2;`, budgetColumns)
	return scanBudget(s.pool.QueryRow(ctx, query, id, userID))
}

// UpdateBudget applies a typed partial update constrained to the owner.
func (s *Store) UpdateBudget(ctx context.Context, userID, id uuid.UUID, patch storage.BudgetPatch) (models.Budget, error) {
	var b setBuilder
	if patch.Category != nil {
		b.add("category", *patch.Category)
	}
	if patch.Amount != nil {
		b.add("amount", *patch.Amount)
	}
	if patch.Period != nil {
		b.add("period", *patch.Period)
	}
	if b.empty() {
		return s.GetBudget(ctx, userID, id)
	}
	query := fmt.Sprintf(`UPDATE budgets SET %s WHERE id = %s AND user_id = %s RETURNING %s;`,
		b.setClause(), b.next(id), b.next(userID), budgetColumns)
	return scanBudget(s.pool.QueryRow(ctx, query, b.args...))
}

// DeleteBudget removes a budget and returns the deleted row.
func (s *Store) DeleteBudget(ctx context.Context, userID, id uuid.UUID) (models.Budget, error) {
	query := fmt.Sprintf(`DELETE FROM budgets WHERE id = $1 AND user_id = $2 RETURNING %s;`, budgetColumns)
	return scanBudget(s.pool.QueryRow(ctx, query, id, userID))
}

func scanBudget(row pgx.Row) (models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Period, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Budget{}, storage.ErrNotFound
		}
		return models.Budget{}, err
	}
	return b, nil
}
