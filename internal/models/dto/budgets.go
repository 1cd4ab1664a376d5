package dto

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

// CreateBudgetRequest sets a planning ceiling for one category.
type CreateBudgetRequest struct {
	Category models.Category `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Period   models.Period   `json:"period"`
}

// Validate checks required fields and defaults the period to monthly.
func (r *CreateBudgetRequest) Validate() error {
	if !r.Category.Valid() {
		return errors.New("invalid category")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if r.Period == "" {
		r.Period = models.PeriodMonthly
	}
	if !r.Period.Valid() {
		return errors.New("period must be weekly or monthly")
	}
	return nil
}

// UpdateBudgetRequest is a typed partial update for a budget.
type UpdateBudgetRequest struct {
	Category *models.Category `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Period   *models.Period   `json:"period"`
}

// Validate checks whichever fields are present.
func (r *UpdateBudgetRequest) Validate() error {
	if r.Category != nil && !r.Category.Valid() {
		return errors.New("invalid category")
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if r.Period != nil && !r.Period.Valid() {
		return errors.New("period must be weekly or monthly")
	}
	return nil
}
