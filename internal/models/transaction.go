package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category enumerates spending categories shared by transactions and budgets.
type Category string

const (
	CategoryHousing        Category = "housing"
	CategoryEntertainment  Category = "entertainment"
	CategoryFood           Category = "food"
	CategoryShopping       Category = "shopping"
	CategoryTransportation Category = "transportation"
	CategoryOther          Category = "other"
)

// Valid reports whether the category is one of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryHousing, CategoryEntertainment, CategoryFood,
		CategoryShopping, CategoryTransportation, CategoryOther:
		return true
	}
	return false
}

// TransactionType marks a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the transaction type is income or expense.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense record. Amount is always
// positive; the type carries the sign. AccountID is fixed at creation.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	AccountID   *uuid.UUID      `json:"accountId,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Merchant    string          `json:"merchant,omitempty"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	CreatedAt   time.Time       `json:"createdAt"`
}
