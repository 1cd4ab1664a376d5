package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// AccountHandler owns account CRUD endpoints.
type AccountHandler struct {
	store storage.AccountStore
	log   *zap.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(store storage.AccountStore, log *zap.Logger) *AccountHandler {
	return &AccountHandler{store: store, log: log}
}

// Register attaches account routes to the mux.
func (h *AccountHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.Handle("POST /accounts", authn(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /accounts", authn(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /accounts/{id}", authn(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /accounts/{id}", authn(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /accounts/{id}", authn(http.HandlerFunc(h.handleDelete)))
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.store.CreateAccount(r.Context(), models.Account{
		UserID:         user.ID,
		Name:           req.Name,
		Type:           req.Type,
		Balance:        req.Balance,
		LastFourDigits: req.LastFourDigits,
	})
	if err != nil {
		h.log.Error("create account failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	respond.JSON(w, http.StatusCreated, "Account created successfully", created)
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	accounts, err := h.store.ListAccounts(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list accounts failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch accounts")
		return
	}
	respond.JSON(w, http.StatusOK, "Accounts fetched successfully", accounts)
}

func (h *AccountHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	account, err := h.store.GetAccount(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "get account", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Account fetched successfully", account)
}

func (h *AccountHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var req dto.UpdateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid updates")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.store.UpdateAccount(r.Context(), user.ID, id, storage.AccountPatch{
		Name:           req.Name,
		Type:           req.Type,
		Balance:        req.Balance,
		LastFourDigits: req.LastFourDigits,
	})
	if err != nil {
		respondOwnershipError(w, h.log, "update account", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Account updated successfully", updated)
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	deleted, err := h.store.DeleteAccount(r.Context(), user.ID, id)
	if err != nil {
		respondOwnershipError(w, h.log, "delete account", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Account deleted successfully", deleted)
}
