package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency enumerates how often a bill recurs.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether the frequency is one of the closed set.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Bill is a recurring obligation. IsPaid flips one way per cycle and
// reminders stop once it is set or the due date passes the window.
type Bill struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"dueDate"`
	Frequency    Frequency       `json:"frequency"`
	IsPaid       bool            `json:"isPaid"`
	LastPaidDate *time.Time      `json:"lastPaidDate,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
