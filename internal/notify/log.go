package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/reminder"
)

// LogNotifier writes reminders to the log. Used when no broker is
// configured, typically in local development.
type LogNotifier struct {
	log *zap.Logger
}

var _ reminder.Notifier = (*LogNotifier)(nil)

// NewLogNotifier constructs the notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

// Notify logs the reminder instead of delivering it.
func (n *LogNotifier) Notify(_ context.Context, r reminder.Reminder) error {
	n.log.Info("bill reminder",
		zap.String("email", r.Email),
		zap.String("bill", r.Name),
		zap.String("amount", r.Amount.String()),
		zap.Time("due_date", r.DueDate),
	)
	return nil
}
