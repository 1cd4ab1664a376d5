// Package reminder scans for unpaid bills coming due and hands them to a
// notifier. The scan is read-only; bills stay unpaid until the user marks
// them, so a bill keeps being reminded each day it remains due.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/storage"
)

// Reminder is one upcoming-bill notification.
type Reminder struct {
	BillID  uuid.UUID       `json:"billId"`
	UserID  uuid.UUID       `json:"userId"`
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// Notifier delivers a reminder to its user.
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

// Scanner finds bills due within the window and notifies their owners.
type Scanner struct {
	bills    storage.BillStore
	notifier Notifier
	window   time.Duration
	hour     int
	log      *zap.Logger
	now      func() time.Time
}

// NewScanner constructs a scanner. hour is the local hour of day at which
// Run fires each daily pass.
func NewScanner(bills storage.BillStore, notifier Notifier, window time.Duration, hour int, log *zap.Logger) *Scanner {
	return &Scanner{
		bills:    bills,
		notifier: notifier,
		window:   window,
		hour:     hour,
		log:      log.Named("reminder"),
		now:      time.Now,
	}
}

// RunOnce performs a single scan. A failed notification is logged and
// skipped; one bad bill never blocks the rest of the batch.
func (s *Scanner) RunOnce(ctx context.Context) error {
	dueBy := s.now().Add(s.window)
	due, err := s.bills.DueUnpaidBills(ctx, dueBy)
	if err != nil {
		return err
	}

	sent := 0
	for _, d := range due {
		reminder := Reminder{
			BillID:  d.Bill.ID,
			UserID:  d.Bill.UserID,
			Email:   d.Email,
			Name:    d.Bill.Name,
			Amount:  d.Bill.Amount,
			DueDate: d.Bill.DueDate,
		}
		if err := s.notifier.Notify(ctx, reminder); err != nil {
			s.log.Error("notify failed",
				zap.String("bill_id", d.Bill.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}
	s.log.Info("reminder scan complete", zap.Int("due", len(due)), zap.Int("sent", sent))
	return nil
}

// Run scans once per day at the configured hour until the context is
// cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	for {
		wait := time.Until(s.nextFiring())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Error("reminder scan failed", zap.Error(err))
		}
	}
}

// nextFiring returns the next occurrence of the configured hour, today if
// it has not passed yet.
func (s *Scanner) nextFiring() time.Time {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
