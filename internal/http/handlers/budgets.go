package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// BudgetHandler owns budget endpoints.
type BudgetHandler struct {
	store storage.BudgetStore
	log   *zap.Logger
}

// NewBudgetHandler constructs the handler.
func NewBudgetHandler(store storage.BudgetStore, log *zap.Logger) *BudgetHandler {
	return &BudgetHandler{store: store, log: log}
}

// Register attaches budget routes to the mux.
func (h *BudgetHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("POST /budgets", authn(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /budgets", authn(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /budgets/summary", authn(http.HandlerFunc(h.handleSummary)))
	mux.Handle("GET /budgets/{id}", authn(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /budgets/{id}", authn(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /budgets/{id}", authn(http.HandlerFunc(h.handleDelete)))
}

func (h *BudgetHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.store.CreateBudget(r.Context(), models.Budget{
		UserID:   user.ID,
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	})
	if err != nil {
		h.log.Error("create budget failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create budget")
		return
	}
	respond.JSON(w, http.StatusCreated, "Budget created successfully", created)
}

func (h *BudgetHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var filter storage.BudgetFilter
	if v := r.URL.Query().Get("category"); v != "" {
		c := models.Category(v)
		if !c.Valid() {
			respond.Error(w, http.StatusBadRequest, "invalid category")
			return
		}
		filter.Category = c
	}
	if v := r.URL.Query().Get("period"); v != "" {
		p := models.Period(v)
		if !p.Valid() {
			respond.Error(w, http.StatusBadRequest, "invalid period")
			return
		}
		filter.Period = p
	}
	budgets, err := h.store.ListBudgets(r.Context(), user.ID, filter)
	if err != nil {
		h.log.Error("list budgets failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch budgets")
		return
	}
	respond.JSON(w, http.StatusOK, "Budgets fetched successfully", budgets)
}

// handleSummary returns a category-to-amount map of the caller's budgets.
// With duplicate categories the most recently created budget wins.
func (h *BudgetHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	budgets, err := h.store.ListBudgets(r.Context(), user.ID, storage.BudgetFilter{})
	if err != nil {
		h.log.Error("budget summary failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch budget summary")
		return
	}
	summary := make(map[models.Category]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		summary[b.Category] = b.Amount
	}
	respond.JSON(w, http.StatusOK, "Budget summary fetched successfully", summary)
}

func (h *BudgetHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid budget id")
		return
	}
	budget, err := h.store.GetBudget(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "get budget", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Budget fetched successfully", budget)
}

func (h *BudgetHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid budget id")
		return
	}
	var req dto.UpdateBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid updates")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.UpdateBudget(r.Context(), user.ID, id, storage.BudgetPatch{
		Category: req.Category,
		Amount:   req.Amount,
		Period:   req.Period,
	})
	if err != nil {
		respondOwnershipError(w, h.log, "update budget", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Budget updated successfully", updated)
}

func (h *BudgetHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid budget id")
		return
	}
	deleted, err := h.store.DeleteBudget(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "delete budget", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Budget deleted successfully", deleted)
}
