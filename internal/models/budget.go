package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period enumerates budgeting windows.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Valid reports whether the period is weekly or monthly.
func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly
}

// Budget is a planning ceiling for one category. It is not enforced
// against transactions.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  Category        `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    Period          `json:"period"`
	CreatedAt time.Time       `json:"createdAt"`
}
