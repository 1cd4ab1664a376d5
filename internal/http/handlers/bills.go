package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// BillHandler owns recurring-bill endpoints.
type BillHandler struct {
	store storage.BillStore
	log   *zap.Logger
}

// NewBillHandler constructs the handler.
func NewBillHandler(store storage.BillStore, log *zap.Logger) *BillHandler {
	return &BillHandler{store: store, log: log}
}

// Register attaches bill routes to the mux.
func (h *BillHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("POST /bills", authn(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /bills", authn(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /bills/{id}", authn(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /bills/{id}", authn(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /bills/{id}", authn(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /bills/{id}/paid", authn(http.HandlerFunc(h.handleMarkPaid)))
}

func (h *BillHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateBillRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.store.CreateBill(r.Context(), models.Bill{
		UserID:    user.ID,
		Name:      req.Name,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Frequency: req.Frequency,
	})
	if err != nil {
		h.log.Error("create bill failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create bill")
		return
	}
	respond.JSON(w, http.StatusCreated, "Bill created successfully", created)
}

func (h *BillHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var filter storage.BillFilter
	if v := r.URL.Query().Get("isPaid"); v != "" {
		paid, err := strconv.ParseBool(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid isPaid")
			return
		}
		filter.IsPaid = &paid
	}
	if v := r.URL.Query().Get("frequency"); v != "" {
		f := models.Frequency(v)
		if !f.Valid() {
			respond.Error(w, http.StatusBadRequest, "invalid frequency")
			return
		}
		filter.Frequency = f
	}
	bills, err := h.store.ListBills(r.Context(), user.ID, filter)
	if err != nil {
		h.log.Error("list bills failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch bills")
		return
	}
	respond.JSON(w, http.StatusOK, "Bills fetched successfully", bills)
}

func (h *BillHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.store.GetBill(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "get bill", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Bill fetched successfully", bill)
}

func (h *BillHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	var req dto.UpdateBillRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid updates")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.UpdateBill(r.Context(), user.ID, id, storage.BillPatch{
		Name:         req.Name,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		Frequency:    req.Frequency,
		IsPaid:       req.IsPaid,
		LastPaidDate: req.LastPaidDate,
	})
	if err != nil {
		respondOwnershipError(w, h.log, "update bill", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Bill updated successfully", updated)
}

func (h *BillHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	deleted, err := h.store.DeleteBill(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "delete bill", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Bill deleted successfully", deleted)
}

func (h *BillHandler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.store.MarkBillPaid(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "mark bill paid", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Bill marked as paid", bill)
}
