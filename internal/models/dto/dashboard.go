package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/metrics"
	"github.com/fintrack/fintrack-be/internal/models"
)

// Dashboard is the landing-page snapshot composed from several stores.
type Dashboard struct {
	Username           string                  `json:"username"`
	Balance            decimal.Decimal         `json:"balance"`
	UpcomingBills      []models.Bill           `json:"upcomingBills"`
	RecentTransactions []models.Transaction    `json:"recentTransactions"`
	ExpenseBreakdown   []metrics.CategoryTotal `json:"expenseBreakdown"`
	Goals              []models.Goal           `json:"goals"`
	TargetAchieved     []models.Goal           `json:"targetAchieved"`
	ThisMonthTarget    decimal.Decimal         `json:"thisMonthTarget"`
}
