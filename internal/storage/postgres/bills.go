package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const billColumns = "id, user_id, name, amount, due_date, frequency, is_paid, last_paid_date, created_at"

// CreateBill inserts a new bill for its owning user.
func (s *Store) CreateBill(ctx context.Context, bill models.Bill) (models.Bill, error) {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	query := fmt.Sprintf(`
		INSERT INTO bills (id, user_id, name, amount, due_date, frequency, is_paid, last_paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s;`, billColumns)
	row := s.pool.QueryRow(ctx, query,
		bill.ID, bill.UserID, bill.Name, bill.Amount, bill.DueDate, bill.Frequency, bill.IsPaid, bill.LastPaidDate)
	return scanBill(row)
}

// ListBills returns the user's bills, soonest due first.
func (s *Store) ListBills(ctx context.Context, userID uuid.UUID, filter storage.BillFilter) ([]models.Bill, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.IsPaid != nil {
		args = append(args, *filter.IsPaid)
		where = append(where, fmt.Sprintf("is_paid = $%d", len(args)))
	}
	if filter.Frequency != "" {
		args = append(args, filter.Frequency)
		where = append(where, fmt.Sprintf("frequency = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM bills WHERE %s ORDER BY due_date;`,
		billColumns, strings.Join(where, " AND "))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// GetBill fetches one bill constrained to its owner.
func (s *Store) GetBill(ctx context.Context, userID, id uuid.UUID) (models.Bill, error) {
	query := fmt.Sprintf(`SELECT %s FROM bills WHERE id = $1 AND user_id = $2;`, billColumns)
	return scanBill(s.pool.QueryRow(ctx, query, id, userID))
}

// UpdateBill applies a typed partial update constrained to the owner.
func (s *Store) UpdateBill(ctx context.Context, userID, id uuid.UUID, patch storage.BillPatch) (models.Bill, error) {
	var b setBuilder
	if patch.Name != nil {
		b.add("name", *patch.Name)
	}
	if patch.Amount != nil {
		b.add("amount", *patch.Amount)
	}
	if patch.DueDate != nil {
		b.add("due_date", *patch.DueDate)
	}
	if patch.Frequency != nil {
		b.add("frequency", *patch.Frequency)
	}
	if patch.IsPaid != nil {
		b.add("is_paid", *patch.IsPaid)
	}
	if patch.LastPaidDate != nil {
		b.add("last_paid_date", *patch.LastPaidDate)
	}
	if b.empty() {
		return s.GetBill(ctx, userID, id)
	}
	query := fmt.Sprintf(`UPDATE bills SET %s WHERE id = %s AND user_id = %s RETURNING %s;`,
		b.setClause(), b.next(id), b.next(userID), billColumns)
	return scanBill(s.pool.QueryRow(ctx, query, b.args...))
}

// DeleteBill removes a bill and returns the deleted row.
func (s *Store) DeleteBill(ctx context.Context, userID, id uuid.UUID) (models.Bill, error) {
	query := fmt.Sprintf(`DELETE FROM bills WHERE id = $1 AND user_id = $2 RETURNING %s;`, billColumns)
	return scanBill(s.pool.QueryRow(ctx, query, id, userID))
}

// MarkBillPaid flips the bill to paid and stamps the payment time.
func (s *Store) MarkBillPaid(ctx context.Context, userID, id uuid.UUID) (models.Bill, error) {
	query := fmt.Sprintf(`
		UPDATE bills SET is_paid = TRUE, last_paid_date = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING %s;`, billColumns)
	return scanBill(s.pool.QueryRow(ctx, query, id, userID))
}

// DueUnpaidBills returns every unpaid bill due on or before the given
// time, joined with the owner's email, for the reminder worker.
func (s *Store) DueUnpaidBills(ctx context.Context, dueBy time.Time) ([]storage.DueBill, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.email
		FROM bills b
		JOIN users u ON u.id = b.user_id
		WHERE b.is_paid = FALSE AND b.due_date <= $1
		ORDER BY b.due_date;`, prefixColumns("b", billColumns))
	rows, err := s.pool.Query(ctx, query, dueBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := []storage.DueBill{}
	for rows.Next() {
		var d storage.DueBill
		err := rows.Scan(&d.Bill.ID, &d.Bill.UserID, &d.Bill.Name, &d.Bill.Amount, &d.Bill.DueDate,
			&d.Bill.Frequency, &d.Bill.IsPaid, &d.Bill.LastPaidDate, &d.Bill.CreatedAt, &d.Email)
		if err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func scanBill(row pgx.Row) (models.Bill, error) {
	var b models.Bill
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate,
		&b.Frequency, &b.IsPaid, &b.LastPaidDate, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Bill{}, storage.ErrNotFound
		}
		return models.Bill{}, err
	}
	return b, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
