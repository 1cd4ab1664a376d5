package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/storage"
)

// decodeBody parses a JSON request body into dst. Unknown fields are
// rejected so a non-allow-listed update key fails validation instead of
// being silently dropped.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// currentUser pulls the authenticated user off the context; the auth gate
// always puts it there on protected routes.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "please authenticate")
	}
	return user, ok
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// respondOwnershipError maps storage errors for own-resource operations.
// A missing row means the resource is not the caller's: respond with a
// generic access-denied so existence never leaks through the status code.
func respondOwnershipError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusForbidden, "access denied")
		return
	}
	log.Error(op+" failed", zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}

// parseDate accepts RFC 3339 timestamps and plain dates in query params.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
