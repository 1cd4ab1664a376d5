package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

// CreateTransactionRequest records a new income or expense.
type CreateTransactionRequest struct {
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    models.Category        `json:"category"`
	Merchant    string                 `json:"merchant"`
	Date        *time.Time             `json:"date"`
	Type        models.TransactionType `json:"type"`
	AccountID   *uuid.UUID             `json:"accountId"`
}

// Validate checks required fields against the closed enums.
func (r *CreateTransactionRequest) Validate() error {
	if r.Description == "" {
		return errors.New("missing required fields (description, amount, category, type)")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if !r.Category.Valid() {
		return errors.New("invalid category")
	}
	if !r.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	return nil
}

// UpdateTransactionRequest is a typed partial update. The account link is
// not part of it: accountId is fixed when the transaction is created.
type UpdateTransactionRequest struct {
	Description *string                 `json:"description"`
	Amount      *decimal.Decimal        `json:"amount"`
	Category    *models.Category        `json:"category"`
	Merchant    *string                 `json:"merchant"`
	Date        *time.Time              `json:"date"`
	Type        *models.TransactionType `json:"type"`
}

// Validate checks whichever fields are present.
func (r *UpdateTransactionRequest) Validate() error {
	if r.Description != nil && *r.Description == "" {
		return errors.New("description cannot be empty")
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if r.Category != nil && !r.Category.Valid() {
		return errors.New("invalid category")
	}
	if r.Type != nil && !r.Type.Valid() {
		return errors.New("type must be income or expense")
	}
	return nil
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Count        int                  `json:"count"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	Pages        int                  `json:"pages"`
	Transactions []models.Transaction `json:"transactions"`
}
