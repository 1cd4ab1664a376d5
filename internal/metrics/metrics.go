// Package metrics derives read-time figures from stored entities: goal
// progress and pacing, aggregate goal summaries, and expense-category
// breakdowns. Everything here is pure; nothing is persisted.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

var hundred = decimal.NewFromInt(100)

// GoalReport is a goal annotated with its derived figures.
type GoalReport struct {
	models.Goal
	Progress       float64          `json:"progress"`
	TargetAchieved bool             `json:"targetAchieved"`
	MonthlyTarget  *decimal.Decimal `json:"monthlyTarget"`
}

// Report computes all derived figures for one goal.
func Report(g models.Goal, now time.Time) GoalReport {
	return GoalReport{
		Goal:           g,
		Progress:       Progress(g),
		TargetAchieved: TargetAchieved(g),
		MonthlyTarget:  MonthlyTarget(g, now),
	}
}

// Progress returns the percentage of the target reached, clamped to
// [0, 100]. A non-positive target yields 0; creation rejects such goals,
// so this only guards data written before that rule existed.
func Progress(g models.Goal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Float64()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// TargetAchieved reports whether the goal has reached its target.
func TargetAchieved(g models.Goal) bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// MonthlyTarget returns how much must be saved per month to reach the
// target by its date. Goals without a target date have no monthly target.
// A date within the current month still counts as one month of runway; a
// date already passed makes the full remainder due immediately.
func MonthlyTarget(g models.Goal, now time.Time) *decimal.Decimal {
	if g.TargetDate == nil {
		return nil
	}
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	months := wholeMonthsBetween(now, *g.TargetDate) + 1
	if months <= 0 {
		return &remaining
	}
	perMonth := remaining.Div(decimal.NewFromInt(int64(months)))
	if perMonth.IsNegative() {
		perMonth = decimal.Zero
	}
	return &perMonth
}

// Summary aggregates derived figures across all of a user's goals.
type Summary struct {
	TargetAchievedThisMonth    int             `json:"targetAchievedThisMonth"`
	TotalMonthlyTarget         decimal.Decimal `json:"totalMonthlyTarget"`
	TotalActiveGoals           int             `json:"totalActiveGoals"`
	CurrentMonthTotalTarget    decimal.Decimal `json:"currentMonthTotalTarget"`
	CurrentMonthAchievedTarget decimal.Decimal `json:"currentMonthAchievedTarget"`
}

// Summarize computes the aggregate goal summary. A goal counts as achieved
// this month when its last mutation falls in the current calendar month.
// Monthly targets of active goals are summed only while months remain.
func Summarize(goals []models.Goal, now time.Time) Summary {
	s := Summary{
		TotalMonthlyTarget:         decimal.Zero,
		CurrentMonthTotalTarget:    decimal.Zero,
		CurrentMonthAchievedTarget: decimal.Zero,
	}
	for _, g := range goals {
		s.CurrentMonthTotalTarget = s.CurrentMonthTotalTarget.Add(g.TargetAmount)

		achieved := TargetAchieved(g)
		if achieved {
			if g.UpdatedAt.Month() == now.Month() && g.UpdatedAt.Year() == now.Year() {
				s.TargetAchievedThisMonth++
				s.CurrentMonthAchievedTarget = s.CurrentMonthAchievedTarget.Add(g.TargetAmount)
			}
			continue
		}

		s.TotalActiveGoals++
		if g.TargetDate != nil {
			months := wholeMonthsBetween(now, *g.TargetDate) + 1
			if months > 0 {
				perMonth := g.TargetAmount.Sub(g.CurrentAmount).Div(decimal.NewFromInt(int64(months)))
				s.TotalMonthlyTarget = s.TotalMonthlyTarget.Add(perMonth)
			}
		}
	}
	s.TotalMonthlyTarget = s.TotalMonthlyTarget.Round(2)
	return s
}

// CategoryShare is one category's slice of total expenses.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage int64           `json:"percentage"`
}

// Breakdown groups expenses by category with each category's share of the
// total.
type Breakdown struct {
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Categories    []CategoryShare `json:"breakdown"`
}

// ExpenseBreakdown sums expense-type transactions per category and computes
// rounded percentage shares. A zero total short-circuits to an empty
// breakdown instead of dividing by zero. Categories are title-cased and
// ordered by amount, largest first.
func ExpenseBreakdown(txs []models.Transaction) Breakdown {
	totals := expenseTotals(txs)
	out := Breakdown{TotalExpenses: decimal.Zero, Categories: []CategoryShare{}}
	for _, t := range totals {
		out.TotalExpenses = out.TotalExpenses.Add(t.Total)
	}
	if !out.TotalExpenses.IsPositive() {
		return out
	}
	for _, t := range totals {
		out.Categories = append(out.Categories, CategoryShare{
			Category:   titleCase(string(t.Category)),
			Amount:     t.Total,
			Percentage: t.Total.Div(out.TotalExpenses).Mul(hundred).Round(0).IntPart(),
		})
	}
	return out
}

// CategoryTotal is a raw per-category expense sum, used by the dashboard.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseTotals sums expense-type transactions per category, ordered by
// total, largest first.
func ExpenseTotals(txs []models.Transaction) []CategoryTotal {
	return expenseTotals(txs)
}

func expenseTotals(txs []models.Transaction) []CategoryTotal {
	byCategory := make(map[models.Category]decimal.Decimal)
	for _, t := range txs {
		if t.Type != models.TypeExpense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}
	out := make([]CategoryTotal, 0, len(byCategory))
	for c, total := range byCategory {
		out = append(out, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// wholeMonthsBetween counts whole calendar months from one instant to
// another, truncating toward zero. Negative when to precedes from.
func wholeMonthsBetween(from, to time.Time) int {
	months := 0
	cursor := from
	if to.After(from) {
		for {
			next := cursor.AddDate(0, 1, 0)
			if next.After(to) {
				return months
			}
			months++
			cursor = next
		}
	}
	for {
		prev := cursor.AddDate(0, -1, 0)
		if prev.Before(to) {
			return months
		}
		months--
		cursor = prev
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
