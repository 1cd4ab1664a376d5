package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// fakeBillStore stubs the one method the scanner touches; the embedded
// interface panics if anything else is called.
type fakeBillStore struct {
	storage.BillStore
	due       []storage.DueBill
	err       error
	seenDueBy time.Time
}

func (f *fakeBillStore) DueUnpaidBills(_ context.Context, dueBy time.Time) ([]storage.DueBill, error) {
	f.seenDueBy = dueBy
	return f.due, f.err
}

type recordingNotifier struct {
	sent    []Reminder
	failFor string
}

func (n *recordingNotifier) Notify(_ context.Context, r Reminder) error {
	if r.Name == n.failFor {
		return errors.New("broker unavailable")
	}
	n.sent = append(n.sent, r)
	return nil
}

func dueBill(name, email string, due time.Time) storage.DueBill {
	return storage.DueBill{
		Bill: models.Bill{
			ID:      uuid.New(),
			UserID:  uuid.New(),
			Name:    name,
			Amount:  decimal.NewFromInt(100),
			DueDate: due,
		},
		Email: email,
	}
}

func TestRunOnceNotifiesEachDueBill(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	bills := &fakeBillStore{due: []storage.DueBill{
		dueBill("Rent", "ada@example.com", now.Add(24*time.Hour)),
		dueBill("Water", "eve@example.com", now.Add(48*time.Hour)),
	}}
	notifier := &recordingNotifier{}
	scanner := NewScanner(bills, notifier, 72*time.Hour, 9, zap.NewNop())
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.RunOnce(context.Background()))

	assert.Equal(t, now.Add(72*time.Hour), bills.seenDueBy)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Rent", notifier.sent[0].Name)
	assert.Equal(t, "ada@example.com", notifier.sent[0].Email)
}

func TestRunOnceSkipsFailedNotification(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	bills := &fakeBillStore{due: []storage.DueBill{
		dueBill("Rent", "ada@example.com", now),
		dueBill("Water", "ada@example.com", now),
		dueBill("Power", "ada@example.com", now),
	}}
	notifier := &recordingNotifier{failFor: "Water"}
	scanner := NewScanner(bills, notifier, 72*time.Hour, 9, zap.NewNop())
	scanner.now = func() time.Time { return now }

	// One bad bill never blocks the rest of the batch.
	require.NoError(t, scanner.RunOnce(context.Background()))
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "Rent", notifier.sent[0].Name)
	assert.Equal(t, "Power", notifier.sent[1].Name)
}

func TestRunOncePropagatesStoreError(t *testing.T) {
	bills := &fakeBillStore{err: errors.New("connection refused")}
	scanner := NewScanner(bills, &recordingNotifier{}, 72*time.Hour, 9, zap.NewNop())

	assert.Error(t, scanner.RunOnce(context.Background()))
}

func TestNextFiring(t *testing.T) {
	scanner := NewScanner(&fakeBillStore{}, &recordingNotifier{}, time.Hour, 9, zap.NewNop())

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before the hour fires today",
			time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC),
			time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			"after the hour fires tomorrow",
			time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			"exactly on the hour fires tomorrow",
			time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scanner.now = func() time.Time { return tc.now }
			assert.Equal(t, tc.want, scanner.nextFiring())
		})
	}
}
