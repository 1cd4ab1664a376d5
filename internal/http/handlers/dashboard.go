package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/metrics"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const (
	dashboardBillCount        = 3
	dashboardTransactionCount = 5
)

// DashboardHandler composes the landing-page snapshot from the other
// stores. The source queries are independent, so they run concurrently.
type DashboardHandler struct {
	transactions storage.TransactionStore
	bills        storage.BillStore
	goals        storage.GoalStore
	log          *zap.Logger
	now          func() time.Time
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(transactions storage.TransactionStore, bills storage.BillStore, goals storage.GoalStore, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		transactions: transactions,
		bills:        bills,
		goals:        goals,
		log:          log,
		now:          time.Now,
	}
}

// Register attaches the dashboard route to the mux.
func (h *DashboardHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("GET /users/dashboard", authn(http.HandlerFunc(h.handleDashboard)))
}

func (h *DashboardHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var (
		unpaidBills []models.Bill
		recent      []models.Transaction
		expenses    []models.Transaction
		goals       []models.Goal
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		unpaid := false
		bills, err := h.bills.ListBills(ctx, user.ID, storage.BillFilter{IsPaid: &unpaid})
		unpaidBills = bills
		return err
	})
	g.Go(func() error {
		txs, _, err := h.transactions.ListTransactions(ctx, user.ID, storage.TransactionFilter{
			SortDesc: true,
			Page:     1,
			Limit:    dashboardTransactionCount,
		})
		recent = txs
		return err
	})
	g.Go(func() error {
		txs, _, err := h.transactions.ListTransactions(ctx, user.ID, storage.TransactionFilter{
			Type: models.TypeExpense,
		})
		expenses = txs
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = h.goals.ListGoals(ctx, user.ID, storage.GoalFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Error("dashboard fetch failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	// Bills come back ordered by due date, so the first few are the most
	// urgent.
	if len(unpaidBills) > dashboardBillCount {
		unpaidBills = unpaidBills[:dashboardBillCount]
	}

	now := h.now()
	achieved := make([]models.Goal, 0)
	thisMonthTarget := decimal.Zero
	for _, goal := range goals {
		if metrics.TargetAchieved(goal) {
			achieved = append(achieved, goal)
		}
		if goal.TargetDate != nil &&
			goal.TargetDate.Year() == now.Year() && goal.TargetDate.Month() == now.Month() {
			thisMonthTarget = thisMonthTarget.Add(goal.TargetAmount)
		}
	}

	respond.JSON(w, http.StatusOK, "Dashboard fetched successfully", dto.Dashboard{
		Username:           user.Name,
		Balance:            user.Balance,
		UpcomingBills:      unpaidBills,
		RecentTransactions: recent,
		ExpenseBreakdown:   metrics.ExpenseTotals(expenses),
		Goals:              goals,
		TargetAchieved:     achieved,
		ThisMonthTarget:    thisMonthTarget,
	})
}
