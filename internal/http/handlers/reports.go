package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/metrics"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// ReportHandler exports a multi-section financial summary for the caller.
type ReportHandler struct {
	transactions storage.TransactionStore
	goals        storage.GoalStore
	bills        storage.BillStore
	log          *zap.Logger
	now          func() time.Time
}

// NewReportHandler constructs the handler.
func NewReportHandler(transactions storage.TransactionStore, goals storage.GoalStore, bills storage.BillStore, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		transactions: transactions,
		goals:        goals,
		bills:        bills,
		log:          log,
		now:          time.Now,
	}
}

// Register attaches the report route to the mux.
func (h *ReportHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("GET /reports/export", authn(http.HandlerFunc(h.handleExport)))
}

func (h *ReportHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter := storage.TransactionFilter{SortDesc: true}
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		filter.EndDate = &t
	}

	var (
		txs   []models.Transaction
		goals []models.Goal
		bills []models.Bill
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		txs, _, err = h.transactions.ListTransactions(ctx, user.ID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = h.goals.ListGoals(ctx, user.ID, storage.GoalFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = h.bills.ListBills(ctx, user.ID, storage.BillFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		h.log.Error("report export failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	report := dto.Report{
		ReportType:  "financial-summary",
		GeneratedAt: h.now().UTC(),
		Sections: []dto.ReportSection{
			transactionSection(txs),
			expenseSection(txs),
			goalSection(goals),
			billSection(bills),
		},
	}
	respond.JSON(w, http.StatusOK, "Report generated successfully", report)
}

func transactionSection(txs []models.Transaction) dto.ReportSection {
	rows := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, map[string]any{
			"Date":        tx.Date.Format("2006-01-02"),
			"Description": tx.Description,
			"Merchant":    tx.Merchant,
			"Type":        string(tx.Type),
			"Category":    string(tx.Category),
			"Amount":      tx.Amount,
		})
	}
	return dto.ReportSection{Title: "Transactions", Data: rows}
}

func expenseSection(txs []models.Transaction) dto.ReportSection {
	expenses := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == models.TypeExpense {
			expenses = append(expenses, tx)
		}
	}
	totals := metrics.ExpenseTotals(expenses)
	rows := make([]map[string]any, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, map[string]any{
			"Category":     string(t.Category),
			"Total Amount": t.Total,
		})
	}
	return dto.ReportSection{Title: "Expenses Summary", Data: rows}
}

func goalSection(goals []models.Goal) dto.ReportSection {
	rows := make([]map[string]any, 0, len(goals))
	for _, goal := range goals {
		status := "In Progress"
		if metrics.TargetAchieved(goal) {
			status = "Achieved"
		}
		targetDate := ""
		if goal.TargetDate != nil {
			targetDate = goal.TargetDate.Format("2006-01-02")
		}
		rows = append(rows, map[string]any{
			"Name":           goal.Name,
			"Target Amount":  goal.TargetAmount,
			"Current Amount": goal.CurrentAmount,
			"Progress":       fmt.Sprintf("%.0f%%", metrics.Progress(goal)),
			"Target Date":    targetDate,
			"Status":         status,
		})
	}
	return dto.ReportSection{Title: "Goals", Data: rows}
}

func billSection(bills []models.Bill) dto.ReportSection {
	rows := make([]map[string]any, 0, len(bills))
	for _, bill := range bills {
		status := "Unpaid"
		if bill.IsPaid {
			status = "Paid"
		}
		rows = append(rows, map[string]any{
			"Name":      bill.Name,
			"Amount":    bill.Amount,
			"Due Date":  bill.DueDate.Format("2006-01-02"),
			"Frequency": string(bill.Frequency),
			"Status":    status,
		})
	}
	return dto.ReportSection{Title: "Bills", Data: rows}
}
