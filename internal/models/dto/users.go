package dto

import (
	"errors"

	"github.com/shopspring/decimal"
)

// UpdateProfileRequest is a typed partial update for the caller's profile.
type UpdateProfileRequest struct {
	Name     *string          `json:"name"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Balance  *decimal.Decimal `json:"balance"`
}

// Validate checks whichever fields are present.
func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.Email != nil {
		normalized := NormalizeEmail(*r.Email)
		if !ValidEmail(normalized) {
			return errors.New("please provide a valid email address")
		}
		r.Email = &normalized
	}
	if r.Password != nil && len(*r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// UpdateBalanceRequest sets the user's running balance. The pointer makes
// a missing field distinguishable from an explicit zero; non-numeric input
// fails JSON decoding outright.
type UpdateBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance"`
}

// Validate requires the balance to be present.
func (r *UpdateBalanceRequest) Validate() error {
	if r.Balance == nil {
		return errors.New("amount must be a number")
	}
	return nil
}
