package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/metrics"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const defaultPageSize = 10

// TransactionHandler owns transaction endpoints. Writes flow through the
// store's ledger logic so the linked account balance tracks the signed sum
// of its transactions.
type TransactionHandler struct {
	store storage.TransactionStore
	log   *zap.Logger
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(store storage.TransactionStore, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{store: store, log: log}
}

// Register attaches transaction routes to the mux. The literal /breakdown
// segment wins over the {id} wildcard.
func (h *TransactionHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("POST /transactions", authn(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /transactions", authn(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /transactions/breakdown", authn(http.HandlerFunc(h.handleBreakdown)))
	mux.Handle("GET /transactions/{id}", authn(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /transactions/{id}", authn(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /transactions/{id}", authn(http.HandlerFunc(h.handleDelete)))
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tx := models.Transaction{
		UserID:      user.ID,
		AccountID:   req.AccountID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Merchant:    req.Merchant,
		Type:        req.Type,
		Date:        time.Now().UTC(),
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}
	created, err := h.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			respond.Error(w, http.StatusNotFound, "Account not found or does not belong to user")
			return
		}
		h.log.Error("create transaction failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	respond.JSON(w, http.StatusCreated, "Transaction created successfully", created)
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	filter, err := parseTransactionFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	txs, total, err := h.store.ListTransactions(r.Context(), user.ID, filter)
	if err != nil {
		h.log.Error("list transactions failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	pages := 1
	if filter.Limit > 0 {
		pages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	respond.JSON(w, http.StatusOK, "Transactions fetched successfully", dto.TransactionPage{
		Count:        len(txs),
		Total:        total,
		Page:         filter.Page,
		Pages:        pages,
		Transactions: txs,
	})
}

func (h *TransactionHandler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	txs, _, err := h.store.ListTransactions(r.Context(), user.ID, storage.TransactionFilter{
		Type: models.TypeExpense,
	})
	if err != nil {
		h.log.Error("expense breakdown failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch expense breakdown")
		return
	}
	respond.JSON(w, http.StatusOK, "Expense breakdown fetched successfully", metrics.ExpenseBreakdown(txs))
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	tx, err := h.store.GetTransaction(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "get transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Transaction fetched successfully", tx)
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	var req dto.UpdateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid updates")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.UpdateTransaction(r.Context(), user.ID, id, storage.TransactionPatch{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Merchant:    req.Merchant,
		Date:        req.Date,
		Type:        req.Type,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			respond.Error(w, http.StatusNotFound, "Account not found or does not belong to user")
			return
		}
		respondOwnershipError(w, h.log, "update transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Transaction updated successfully", updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	deleted, err := h.store.DeleteTransaction(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "delete transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Transaction deleted successfully", deleted)
}

// parseTransactionFilter builds a listing filter from query parameters.
// sortBy takes the form "field" or "field:asc"; descending date order is
// the default.
func parseTransactionFilter(r *http.Request) (storage.TransactionFilter, error) {
	q := r.URL.Query()
	filter := storage.TransactionFilter{
		Page:  1,
		Limit: defaultPageSize,
	}

	if v := q.Get("accountId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid accountId")
		}
		filter.AccountID = &id
	}
	if v := q.Get("type"); v != "" {
		t := models.TransactionType(v)
		if !t.Valid() {
			return filter, errors.New("type must be income or expense")
		}
		filter.Type = t
	}
	if v := q.Get("category"); v != "" {
		c := models.Category(v)
		if !c.Valid() {
			return filter, errors.New("invalid category")
		}
		filter.Category = c
	}
	if v := q.Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, errors.New("invalid startDate")
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, errors.New("invalid endDate")
		}
		filter.EndDate = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = n
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, errors.New("invalid page")
		}
		filter.Page = n
	}
	if v := q.Get("sortBy"); v != "" {
		field, dir, _ := strings.Cut(v, ":")
		filter.SortBy = field
		filter.SortDesc = dir != "asc"
	}
	return filter, nil
}
