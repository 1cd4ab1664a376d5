package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

// CreateBillRequest records a new recurring bill.
type CreateBillRequest struct {
	Name      string           `json:"name"`
	Amount    decimal.Decimal  `json:"amount"`
	DueDate   time.Time        `json:"dueDate"`
	Frequency models.Frequency `json:"frequency"`
}

// Validate checks required fields and defaults the frequency to monthly.
func (r *CreateBillRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if r.DueDate.IsZero() {
		return errors.New("dueDate is required")
	}
	if r.Frequency == "" {
		r.Frequency = models.FrequencyMonthly
	}
	if !r.Frequency.Valid() {
		return errors.New("invalid frequency")
	}
	return nil
}

// UpdateBillRequest is a typed partial update for a bill.
type UpdateBillRequest struct {
	Name         *string           `json:"name"`
	Amount       *decimal.Decimal  `json:"amount"`
	DueDate      *time.Time        `json:"dueDate"`
	Frequency    *models.Frequency `json:"frequency"`
	IsPaid       *bool             `json:"isPaid"`
	LastPaidDate *time.Time        `json:"lastPaidDate"`
}

// Validate checks whichever fields are present.
func (r *UpdateBillRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return errors.New("amount must be a positive number")
	}
	if r.Frequency != nil && !r.Frequency.Valid() {
		return errors.New("invalid frequency")
	}
	return nil
}
