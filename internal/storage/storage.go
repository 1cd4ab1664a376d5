// Package storage defines the persistence contracts used by handlers and
// workers, plus the error taxonomy they translate into HTTP responses.
//
// Every per-resource lookup is constrained by both resource ID and owning
// user ID; a miss surfaces as ErrNotFound and the caller decides whether
// that means "forbidden" (own-resource access) or "not found" (cross-entity
// reference).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

// ErrNotFound indicates a record does not exist for the requesting user.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrAccountNotFound indicates a transaction referenced an account the
// user does not own. Kept separate from ErrNotFound so handlers can report
// 404 for the reference while the primary resource still maps to 403.
var ErrAccountNotFound = errors.New("referenced account not found")

// UserPatch is a typed partial update for a user record. Nil fields are
// left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Balance      *decimal.Decimal
}

// AccountPatch is a typed partial update for an account.
type AccountPatch struct {
	Name           *string
	Type           *models.AccountType
	Balance        *decimal.Decimal
	LastFourDigits *string
}

// TransactionPatch is a typed partial update for a transaction. AccountID
// is deliberately absent: the account link is fixed at creation.
type TransactionPatch struct {
	Description *string
	Amount      *decimal.Decimal
	Category    *models.Category
	Merchant    *string
	Date        *time.Time
	Type        *models.TransactionType
}

// BillPatch is a typed partial update for a bill.
type BillPatch struct {
	Name         *string
	Amount       *decimal.Decimal
	DueDate      *time.Time
	Frequency    *models.Frequency
	IsPaid       *bool
	LastPaidDate *time.Time
}

// GoalPatch is a typed partial update for a goal.
type GoalPatch struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	TargetDate    *time.Time
	Category      *string
}

// BudgetPatch is a typed partial update for a budget.
type BudgetPatch struct {
	Category *models.Category
	Amount   *decimal.Decimal
	Period   *models.Period
}

// TransactionFilter narrows and pages a transaction listing. Limit <= 0
// disables pagination. SortBy is validated against a column whitelist by
// the store.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Type      models.TransactionType
	Category  models.Category
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
	SortDesc  bool
	Page      int
	Limit     int
}

// BillFilter narrows a bill listing.
type BillFilter struct {
	IsPaid    *bool
	Frequency models.Frequency
}

// GoalFilter narrows a goal listing.
type GoalFilter struct {
	Category string
}

// BudgetFilter narrows a budget listing.
type BudgetFilter struct {
	Category models.Category
	Period   models.Period
}

// DueBill pairs an unpaid bill with its owner's email for reminders.
type DueBill struct {
	Bill  models.Bill
	Email string
}

// UserStore captures user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// SessionStore manages the persisted set of live tokens per user. Add and
// remove are single-row writes, so concurrent logins and logouts cannot
// lose each other.
type SessionStore interface {
	AddSession(ctx context.Context, userID uuid.UUID, token string) error
	RemoveSession(ctx context.Context, userID uuid.UUID, token string) error
	HasSession(ctx context.Context, userID uuid.UUID, token string) (bool, error)
}

// AccountStore captures account persistence operations.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	GetAccount(ctx context.Context, userID, id uuid.UUID) (models.Account, error)
	UpdateAccount(ctx context.Context, userID, id uuid.UUID, patch AccountPatch) (models.Account, error)
	DeleteAccount(ctx context.Context, userID, id uuid.UUID) (models.Account, error)
}

// TransactionStore captures transaction persistence. Create, update, and
// delete also maintain the linked account's balance; the store must apply
// the transaction write and the balance increment atomically.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]models.Transaction, int64, error)
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id uuid.UUID, patch TransactionPatch) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) (models.Transaction, error)
}

// BillStore captures bill persistence operations.
type BillStore interface {
	CreateBill(ctx context.Context, bill models.Bill) (models.Bill, error)
	ListBills(ctx context.Context, userID uuid.UUID, filter BillFilter) ([]models.Bill, error)
	GetBill(ctx context.Context, userID, id uuid.UUID) (models.Bill, error)
	UpdateBill(ctx context.Context, userID, id uuid.UUID, patch BillPatch) (models.Bill, error)
	DeleteBill(ctx context.Context, userID, id uuid.UUID) (models.Bill, error)
	MarkBillPaid(ctx context.Context, userID, id uuid.UUID) (models.Bill, error)
	DueUnpaidBills(ctx context.Context, dueBy time.Time) ([]DueBill, error)
}

// GoalStore captures goal persistence operations.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal models.Goal) (models.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, filter GoalFilter) ([]models.Goal, error)
	GetGoal(ctx context.Context, userID, id uuid.UUID) (models.Goal, error)
	UpdateGoal(ctx context.Context, userID, id uuid.UUID, patch GoalPatch) (models.Goal, error)
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) (models.Goal, error)
	AddToGoal(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (models.Goal, error)
}

// BudgetStore captures budget persistence operations.
type BudgetStore interface {
	CreateBudget(ctx context.Context, budget models.Budget) (models.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID, filter BudgetFilter) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id uuid.UUID) (models.Budget, error)
	UpdateBudget(ctx context.Context, userID, id uuid.UUID, patch BudgetPatch) (models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id uuid.UUID) (models.Budget, error)
}

// Store is the full persistence surface implemented by the Postgres store.
type Store interface {
	UserStore
	SessionStore
	AccountStore
	TransactionStore
	BillStore
	GoalStore
	BudgetStore
}
