package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CreateGoalRequest starts a new savings goal. Target amounts must be
// positive so progress can never divide by zero.
type CreateGoalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time      `json:"targetDate"`
	Category      string          `json:"category"`
}

// Validate checks required fields.
func (r *CreateGoalRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !r.TargetAmount.IsPositive() {
		return errors.New("targetAmount must be a positive number")
	}
	if r.CurrentAmount.IsNegative() {
		return errors.New("currentAmount cannot be negative")
	}
	return nil
}

// UpdateGoalRequest is a typed partial update for a goal.
type UpdateGoalRequest struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time       `json:"targetDate"`
	Category      *string          `json:"category"`
}

// Validate checks whichever fields are present.
func (r *UpdateGoalRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.TargetAmount != nil && !r.TargetAmount.IsPositive() {
		return errors.New("targetAmount must be a positive number")
	}
	if r.CurrentAmount != nil && r.CurrentAmount.IsNegative() {
		return errors.New("currentAmount cannot be negative")
	}
	return nil
}

// AddToGoalRequest deposits toward a goal.
type AddToGoalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Validate requires a strictly positive deposit.
func (r *AddToGoalRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return errors.New("invalid amount")
	}
	return nil
}
