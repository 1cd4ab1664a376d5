package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// Authenticator resolves bearer tokens to users. A token passes only when
// its signature verifies and the literal string is still in the user's
// persisted session set, so logout revokes access before expiry.
type Authenticator struct {
	tokens   *auth.TokenManager
	sessions storage.SessionStore
	users    storage.UserStore
	log      *zap.Logger
}

// NewAuthenticator constructs the auth gate.
func NewAuthenticator(tokens *auth.TokenManager, sessions storage.SessionStore, users storage.UserStore, log *zap.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		log:      log.Named("auth"),
	}
}

// Require rejects requests without a valid, unrevoked bearer token and
// attaches the resolved user plus the literal token to the context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respond.Error(w, http.StatusUnauthorized, "please authenticate")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := a.tokens.Parse(token)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		live, err := a.sessions.HasSession(r.Context(), userID, token)
		if err != nil {
			a.log.Error("session lookup failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !live {
			respond.Error(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the authenticated user attached by Require.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// TokenFrom returns the literal bearer token attached by Require; logout
// needs it to remove exactly that session.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
