package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/ledger"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// memStore is an in-memory storage.Store for handler tests. It mirrors
// the Postgres store's semantics: ownership-scoped lookups miss with
// ErrNotFound and transaction writes maintain the linked account balance.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	sessions map[uuid.UUID]map[string]bool
	accounts map[uuid.UUID]models.Account
	txs      map[uuid.UUID]models.Transaction
	bills    map[uuid.UUID]models.Bill
	goals    map[uuid.UUID]models.Goal
	budgets  map[uuid.UUID]models.Budget
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]models.User),
		sessions: make(map[uuid.UUID]map[string]bool),
		accounts: make(map[uuid.UUID]models.Account),
		txs:      make(map[uuid.UUID]models.Transaction),
		bills:    make(map[uuid.UUID]models.Bill),
		goals:    make(map[uuid.UUID]models.Goal),
		budgets:  make(map[uuid.UUID]models.Budget),
	}
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (m *memStore) UpdateUser(_ context.Context, id uuid.UUID, patch storage.UserPatch) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	if patch.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *patch.Email {
				return models.User{}, storage.ErrAlreadyExists
			}
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.Balance != nil {
		user.Balance = *patch.Balance
	}
	m.users[id] = user
	return user, nil
}

func (m *memStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.users, id)
	delete(m.sessions, id)
	return nil
}

func (m *memStore) AddSession(_ context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[userID] == nil {
		m.sessions[userID] = make(map[string]bool)
	}
	m.sessions[userID][token] = true
	return nil
}

func (m *memStore) RemoveSession(_ context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sessions[userID][token] {
		return storage.ErrNotFound
	}
	delete(m.sessions[userID], token)
	return nil
}

func (m *memStore) HasSession(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID][token], nil
}

func (m *memStore) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	m.accounts[account.ID] = account
	return account, nil
}

func (m *memStore) ListAccounts(_ context.Context, userID uuid.UUID) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Account, 0)
	for _, account := range m.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetAccount(_ context.Context, userID, id uuid.UUID) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getAccountLocked(userID, id)
}

func (m *memStore) getAccountLocked(userID, id uuid.UUID) (models.Account, error) {
	account, ok := m.accounts[id]
	if !ok || account.UserID != userID {
		return models.Account{}, storage.ErrNotFound
	}
	return account, nil
}

func (m *memStore) UpdateAccount(_ context.Context, userID, id uuid.UUID, patch storage.AccountPatch) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.getAccountLocked(userID, id)
	if err != nil {
		return models.Account{}, err
	}
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.Type != nil {
		account.Type = *patch.Type
	}
	if patch.Balance != nil {
		account.Balance = *patch.Balance
	}
	if patch.LastFourDigits != nil {
		account.LastFourDigits = *patch.LastFourDigits
	}
	m.accounts[id] = account
	return account, nil
}

func (m *memStore) DeleteAccount(_ context.Context, userID, id uuid.UUID) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.getAccountLocked(userID, id)
	if err != nil {
		return models.Account{}, err
	}
	delete(m.accounts, id)
	return account, nil
}

func (m *memStore) applyBalanceLocked(userID uuid.UUID, accountID *uuid.UUID, delta decimal.Decimal) error {
	if accountID == nil {
		return nil
	}
	account, ok := m.accounts[*accountID]
	if !ok || account.UserID != userID {
		return storage.ErrAccountNotFound
	}
	account.Balance = account.Balance.Add(delta)
	m.accounts[*accountID] = account
	return nil
}

func (m *memStore) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.applyBalanceLocked(tx.UserID, tx.AccountID, ledger.Delta(tx)); err != nil {
		return models.Transaction{}, err
	}
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	m.txs[tx.ID] = tx
	return tx, nil
}

func (m *memStore) ListTransactions(_ context.Context, userID uuid.UUID, filter storage.TransactionFilter) ([]models.Transaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, 0)
	for _, tx := range m.txs {
		if tx.UserID != userID {
			continue
		}
		if filter.AccountID != nil && (tx.AccountID == nil || *tx.AccountID != *filter.AccountID) {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, tx)
	}
	// Newest first unless a sort was asked for, matching the SQL store.
	desc := filter.SortDesc || filter.SortBy == ""
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	total := int64(len(out))
	if filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (m *memStore) GetTransaction(_ context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok || tx.UserID != userID {
		return models.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, userID, id uuid.UUID, patch storage.TransactionPatch) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.txs[id]
	if !ok || old.UserID != userID {
		return models.Transaction{}, storage.ErrNotFound
	}
	updated := old
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Merchant != nil {
		updated.Merchant = *patch.Merchant
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if err := m.applyBalanceLocked(userID, old.AccountID, ledger.UpdateDelta(old, updated)); err != nil {
		return models.Transaction{}, err
	}
	m.txs[id] = updated
	return updated, nil
}

func (m *memStore) DeleteTransaction(_ context.Context, userID, id uuid.UUID) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok || tx.UserID != userID {
		return models.Transaction{}, storage.ErrNotFound
	}
	if err := m.applyBalanceLocked(userID, tx.AccountID, ledger.Reversal(tx)); err != nil {
		return models.Transaction{}, err
	}
	delete(m.txs, id)
	return tx, nil
}

func (m *memStore) CreateBill(_ context.Context, bill models.Bill) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill.ID = uuid.New()
	bill.CreatedAt = time.Now()
	m.bills[bill.ID] = bill
	return bill, nil
}

func (m *memStore) ListBills(_ context.Context, userID uuid.UUID, filter storage.BillFilter) ([]models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Bill, 0)
	for _, bill := range m.bills {
		if bill.UserID != userID {
			continue
		}
		if filter.IsPaid != nil && bill.IsPaid != *filter.IsPaid {
			continue
		}
		if filter.Frequency != "" && bill.Frequency != filter.Frequency {
			continue
		}
		out = append(out, bill)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *memStore) GetBill(_ context.Context, userID, id uuid.UUID) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getBillLocked(userID, id)
}

func (m *memStore) getBillLocked(userID, id uuid.UUID) (models.Bill, error) {
	bill, ok := m.bills[id]
	if !ok || bill.UserID != userID {
		return models.Bill{}, storage.ErrNotFound
	}
	return bill, nil
}

func (m *memStore) UpdateBill(_ context.Context, userID, id uuid.UUID, patch storage.BillPatch) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, err := m.getBillLocked(userID, id)
	if err != nil {
		return models.Bill{}, err
	}
	if patch.Name != nil {
		bill.Name = *patch.Name
	}
	if patch.Amount != nil {
		bill.Amount = *patch.Amount
	}
	if patch.DueDate != nil {
		bill.DueDate = *patch.DueDate
	}
	if patch.Frequency != nil {
		bill.Frequency = *patch.Frequency
	}
	if patch.IsPaid != nil {
		bill.IsPaid = *patch.IsPaid
	}
	if patch.LastPaidDate != nil {
		bill.LastPaidDate = patch.LastPaidDate
	}
	m.bills[id] = bill
	return bill, nil
}

func (m *memStore) DeleteBill(_ context.Context, userID, id uuid.UUID) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, err := m.getBillLocked(userID, id)
	if err != nil {
		return models.Bill{}, err
	}
	delete(m.bills, id)
	return bill, nil
}

func (m *memStore) MarkBillPaid(_ context.Context, userID, id uuid.UUID) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, err := m.getBillLocked(userID, id)
	if err != nil {
		return models.Bill{}, err
	}
	now := time.Now()
	bill.IsPaid = true
	bill.LastPaidDate = &now
	m.bills[id] = bill
	return bill, nil
}

func (m *memStore) DueUnpaidBills(_ context.Context, dueBy time.Time) ([]storage.DueBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storage.DueBill, 0)
	for _, bill := range m.bills {
		if bill.IsPaid || bill.DueDate.After(dueBy) {
			continue
		}
		user, ok := m.users[bill.UserID]
		if !ok {
			continue
		}
		out = append(out, storage.DueBill{Bill: bill, Email: user.Email})
	}
	return out, nil
}

func (m *memStore) CreateGoal(_ context.Context, goal models.Goal) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal.ID = uuid.New()
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	m.goals[goal.ID] = goal
	return goal, nil
}

func (m *memStore) ListGoals(_ context.Context, userID uuid.UUID, filter storage.GoalFilter) ([]models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Goal, 0)
	for _, goal := range m.goals {
		if goal.UserID != userID {
			continue
		}
		if filter.Category != "" && goal.Category != filter.Category {
			continue
		}
		out = append(out, goal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetGoal(_ context.Context, userID, id uuid.UUID) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getGoalLocked(userID, id)
}

func (m *memStore) getGoalLocked(userID, id uuid.UUID) (models.Goal, error) {
	goal, ok := m.goals[id]
	if !ok || goal.UserID != userID {
		return models.Goal{}, storage.ErrNotFound
	}
	return goal, nil
}

func (m *memStore) UpdateGoal(_ context.Context, userID, id uuid.UUID, patch storage.GoalPatch) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, err := m.getGoalLocked(userID, id)
	if err != nil {
		return models.Goal{}, err
	}
	if patch.Name != nil {
		goal.Name = *patch.Name
	}
	if patch.TargetAmount != nil {
		goal.TargetAmount = *patch.TargetAmount
	}
	if patch.CurrentAmount != nil {
		goal.CurrentAmount = *patch.CurrentAmount
	}
	if patch.TargetDate != nil {
		goal.TargetDate = patch.TargetDate
	}
	if patch.Category != nil {
		goal.Category = *patch.Category
	}
	goal.UpdatedAt = time.Now()
	m.goals[id] = goal
	return goal, nil
}

func (m *memStore) DeleteGoal(_ context.Context, userID, id uuid.UUID) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, err := m.getGoalLocked(userID, id)
	if err != nil {
		return models.Goal{}, err
	}
	delete(m.goals, id)
	return goal, nil
}

func (m *memStore) AddToGoal(_ context.Context, userID, id uuid.UUID, amount decimal.Decimal) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, err := m.getGoalLocked(userID, id)
	if err != nil {
		return models.Goal{}, err
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	goal.UpdatedAt = time.Now()
	m.goals[id] = goal
	return goal, nil
}

func (m *memStore) CreateBudget(_ context.Context, budget models.Budget) (models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget.ID = uuid.New()
	budget.CreatedAt = time.Now()
	m.budgets[budget.ID] = budget
	return budget, nil
}

func (m *memStore) ListBudgets(_ context.Context, userID uuid.UUID, filter storage.BudgetFilter) ([]models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Budget, 0)
	for _, budget := range m.budgets {
		if budget.UserID != userID {
			continue
		}
		if filter.Category != "" && budget.Category != filter.Category {
			continue
		}
		if filter.Period != "" && budget.Period != filter.Period {
			continue
		}
		out = append(out, budget)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetBudget(_ context.Context, userID, id uuid.UUID) (models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getBudgetLocked(userID, id)
}

func (m *memStore) getBudgetLocked(userID, id uuid.UUID) (models.Budget, error) {
	budget, ok := m.budgets[id]
	if !ok || budget.UserID != userID {
		return models.Budget{}, storage.ErrNotFound
	}
	return budget, nil
}

func (m *memStore) UpdateBudget(_ context.Context, userID, id uuid.UUID, patch storage.BudgetPatch) (models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, err := m.getBudgetLocked(userID, id)
	if err != nil {
		return models.Budget{}, err
	}
	if patch.Category != nil {
		budget.Category = *patch.Category
	}
	if patch.Amount != nil {
		budget.Amount = *patch.Amount
	}
	if patch.Period != nil {
		budget.Period = *patch.Period
	}
	m.budgets[id] = budget
	return budget, nil
}

func (m *memStore) DeleteBudget(_ context.Context, userID, id uuid.UUID) (models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, err := m.getBudgetLocked(userID, id)
	if err != nil {
		return models.Budget{}, err
	}
	delete(m.budgets, id)
	return budget, nil
}
