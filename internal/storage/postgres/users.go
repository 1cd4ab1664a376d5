package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const userColumns = "id, name, email, balance, password_hash, created_at"

// CreateUser inserts a new user row. A duplicate email surfaces as
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := fmt.Sprintf(`
		INSERT INTO users (id, name, email, balance, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s;`, userColumns)
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Balance, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1;`, userColumns)
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by ID.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1;`, userColumns)
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// UpdateUser applies a typed partial update and returns the updated row.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, patch storage.UserPatch) (models.User, error) {
	var b setBuilder
	if patch.Name != nil {
		b.add("name", *patch.Name)
	}
	if patch.Email != nil {
		b.add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		b.add("password_hash", *patch.PasswordHash)
	}
	if patch.Balance != nil {
		b.add("balance", *patch.Balance)
	}
	if b.empty() {
		return s.FindByID(ctx, id)
	}
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s;`,
		b.setClause(), b.next(id), userColumns)
	updated, err := scanUser(s.pool.QueryRow(ctx, query, b.args...))
	if err != nil && isUniqueViolation(err) {
		return models.User{}, storage.ErrAlreadyExists
	}
	return updated, err
}

// DeleteUser removes a user; sessions and owned entities cascade.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddSession appends one token to the user's live session set.
func (s *Store) AddSession(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id) VALUES ($1, $2);`, token, userID)
	return err
}

// RemoveSession deletes exactly the presented token; other sessions for
// the same user stay valid.
func (s *Store) RemoveSession(ctx context.Context, userID uuid.UUID, token string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM sessions WHERE token = $1 AND user_id = $2;`, token, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HasSession reports whether the exact token is live for the user.
func (s *Store) HasSession(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE token = $1 AND user_id = $2);`,
		token, userID).Scan(&exists)
	return exists, err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Balance, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
