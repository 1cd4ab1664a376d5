package dto

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

// CreateAccountRequest opens a named store of value.
type CreateAccountRequest struct {
	Name           string             `json:"name"`
	Type           models.AccountType `json:"type"`
	Balance        decimal.Decimal    `json:"balance"`
	LastFourDigits string             `json:"lastFourDigits"`
}

// Validate checks required fields against the closed type set.
func (r *CreateAccountRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !r.Type.Valid() {
		return errors.New("type must be checking, savings, credit, or investment")
	}
	return nil
}

// UpdateAccountRequest is a typed partial update for an account.
type UpdateAccountRequest struct {
	Name           *string             `json:"name"`
	Type           *models.AccountType `json:"type"`
	Balance        *decimal.Decimal    `json:"balance"`
	LastFourDigits *string             `json:"lastFourDigits"`
}

// Validate checks whichever fields are present.
func (r *UpdateAccountRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.Type != nil && !r.Type.Valid() {
		return errors.New("type must be checking, savings, credit, or investment")
	}
	return nil
}
