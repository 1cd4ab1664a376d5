package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// UserHandler owns registration, login/logout, and profile endpoints.
// Issued tokens are persisted as sessions so logout can revoke them
// server-side before their expiry.
type UserHandler struct {
	users    storage.UserStore
	sessions storage.SessionStore
	tokens   *auth.TokenManager
	log      *zap.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(users storage.UserStore, sessions storage.SessionStore, tokens *auth.TokenManager, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, sessions: sessions, tokens: tokens, log: log}
}

// Register attaches user routes to the mux. Routes wrapped with authn
// require a live bearer token.
func (h *UserHandler) Register(mux *http.ServeMux, authn middleware.Middleware) {
	mux.HandleFunc("POST /users/register", h.handleRegister)
	mux.HandleFunc("POST /users/login", h.handleLogin)
	mux.Handle("POST /users/logout", authn(http.HandlerFunc(h.handleLogout)))
	mux.Handle("GET /users/profile", authn(http.HandlerFunc(h.handleProfile)))
	mux.Handle("PATCH /users/profile", authn(http.HandlerFunc(h.handleUpdateProfile)))
	mux.Handle("DELETE /users/profile", authn(http.HandlerFunc(h.handleDeleteProfile)))
	mux.Handle("PATCH /users/balance", authn(http.HandlerFunc(h.handleUpdateBalance)))
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	created, err := h.users.CreateUser(r.Context(), models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "email already in use")
			return
		}
		h.log.Error("create user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.issueSession(r, created)
	if err != nil {
		h.log.Error("issue session failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	respond.JSON(w, http.StatusCreated, "User created successfully", dto.AuthResponse{Token: token, User: created})
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same message as a wrong password so the response never
			// reveals whether the email is registered.
			respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("login lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issueSession(r, user)
	if err != nil {
		h.log.Error("issue session failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	respond.JSON(w, http.StatusOK, "Login successful", dto.AuthResponse{Token: token, User: user})
}

func (h *UserHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	token, _ := middleware.TokenFrom(r.Context())
	// Removes only the presented token; other devices stay logged in.
	if err := h.sessions.RemoveSession(r.Context(), user.ID, token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.log.Error("remove session failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	respond.JSON(w, http.StatusOK, "Logout successful", nil)
}

func (h *UserHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, "Profile fetched successfully", user)
}

func (h *UserHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid updates")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := storage.UserPatch{Name: req.Name, Email: req.Email, Balance: req.Balance}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			h.log.Error("hash password failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
		patch.PasswordHash = &hash
	}

	updated, err := h.users.UpdateUser(r.Context(), user.ID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "email already in use")
			return
		}
		respondOwnershipError(w, h.log, "update profile", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Profile updated successfully", updated)
}

func (h *UserHandler) handleUpdateBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.UpdateBalanceRequest
	if err := decodeBody(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "amount must be a number")
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.users.UpdateUser(r.Context(), user.ID, storage.UserPatch{Balance: req.Balance})
	if err != nil {
		respondOwnershipError(w, h.log, "update balance", err)
		return
	}
	respond.JSON(w, http.StatusOK, "Balance updated successfully", map[string]any{"balance": updated.Balance})
}

func (h *UserHandler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), user.ID); err != nil {
		respondOwnershipError(w, h.log, "delete user", err)
		return
	}
	respond.JSON(w, http.StatusOK, "User deleted successfully", user)
}

// issueSession generates a token for the user and records it so the auth
// gate will accept it until logout or expiry.
func (h *UserHandler) issueSession(r *http.Request, user models.User) (string, error) {
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return "", err
	}
	if err := h.sessions.AddSession(r.Context(), user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
