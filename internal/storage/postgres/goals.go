package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const goalColumns = "id, user_id, name, target_amount, current_amount, target_date, category, created_at, updated_at"

// CreateGoal inserts a new goal for its owning user.
func (s *Store) CreateGoal(ctx context.Context, goal models.Goal) (models.Goal, error) {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	query := fmt.Sprintf(`
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, target_date, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s;`, goalColumns)
	row := s.pool.QueryRow(ctx, query,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, goal.Category)
	return scanGoal(row)
}

// ListGoals returns the user's goals, oldest first.
func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID, filter storage.GoalFilter) ([]models.Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE user_id = $1`, goalColumns)
	args := []any{userID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	query += ` ORDER BY created_at;`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetGoal fetches one goal constrained to its owner.
func (s *Store) GetGoal(ctx context.Context, userID, id uuid.UUID) (models.Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1 AND user_id = $2;`, goalColumns)
	return scanGoal(s.pool.QueryRow(ctx, query, id, userID))
}

// UpdateGoal applies a typed partial update and bumps updated_at, which
// drives the achieved-this-month metric.
func (s *Store) UpdateGoal(ctx context.Context, userID, id uuid.UUID, patch storage.GoalPatch) (models.Goal, error) {
	var b setBuilder
	if patch.Name != nil {
		b.add("name", *patch.Name)
	}
	if patch.TargetAmount != nil {
		b.add("target_amount", *patch.TargetAmount)
	}
	if patch.CurrentAmount != nil {
		b.add("current_amount", *patch.CurrentAmount)
	}
	if patch.TargetDate != nil {
		b.add("target_date", *patch.TargetDate)
	}
	if patch.Category != nil {
		b.add("category", *patch.Category)
	}
	if b.empty() {
		return s.GetGoal(ctx, userID, id)
	}
	b.raw("updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = %s AND user_id = %s RETURNING %s;`,
		b.setClause(), b.next(id), b.next(userID), goalColumns)
	return scanGoal(s.pool.QueryRow(ctx, query, b.args...))
}

// DeleteGoal removes a goal and returns the deleted row.
func (s *Store) DeleteGoal(ctx context.Context, userID, id uuid.UUID) (models.Goal, error) {
	query := fmt.Sprintf(`DELETE FROM goals WHERE id = $1 AND user_id = $2 RETURNING %s;`, goalColumns)
	return scanGoal(s.pool.QueryRow(ctx, query, id, userID))
}

// AddToGoal deposits toward a goal with a single atomic increment.
func (s *Store) AddToGoal(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (models.Goal, error) {
	query := fmt.Sprintf(`
		UPDATE goals SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING %s;`, goalColumns)
	return scanGoal(s.pool.QueryRow(ctx, query, amount, id, userID))
}

func scanGoal(row pgx.Row) (models.Goal, error) {
	var g models.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.Category, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Goal{}, storage.ErrNotFound
		}
		return models.Goal{}, err
	}
	return g, nil
}
