// Package ledger computes the signed balance contributions that keep an
// account's stored balance equal to the sum of its transactions. The
// storage layer applies these deltas as atomic increments inside a single
// database transaction.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack-be/internal/models"
)

// Delta returns the signed contribution of a transaction to its account:
// positive for income, negative for expense.
func Delta(t models.Transaction) decimal.Decimal {
	if t.Type == models.TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Reversal returns the increment that undoes a transaction's contribution.
func Reversal(t models.Transaction) decimal.Decimal {
	return Delta(t).Neg()
}

// UpdateDelta returns the net increment to apply when a transaction is
// rewritten in place: reverse the old contribution, apply the new one.
// Zero when neither amount nor type changed.
func UpdateDelta(old, updated models.Transaction) decimal.Decimal {
	return Delta(updated).Sub(Delta(old))
}
