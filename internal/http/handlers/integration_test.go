package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/storage/postgres"
)

// TestIntegrationAgainstPostgres runs the register/login/ledger flow
// against a real database. Gated behind an env flag so the default test
// run stays hermetic.
func TestIntegrationAgainstPostgres(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	log := zap.NewNop()
	store, err := postgres.NewStore(ctx, dbURL, log)
	require.NoError(t, err)
	defer store.Close()

	tokens := auth.NewTokenManager("integration-secret", "fintrack-test", time.Hour)
	authn := middleware.NewAuthenticator(tokens, store, store, log).Require

	mux := http.NewServeMux()
	NewUserHandler(store, store, tokens, log).Register(mux, authn)
	NewAccountHandler(store, log).Register(mux, authn)
	NewTransactionHandler(store, log).Register(mux, authn)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	email := fmt.Sprintf("apitest_%d@example.com", time.Now().UnixNano())
	status, envelope := doJSON(t, http.MethodPost, ts.URL+"/users/register", "", map[string]string{
		"name":     "Integration Test",
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, status)
	var authResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &authResp))
	token := authResp.Token

	account := createAccount(t, ts.URL, token)
	id := account.ID.String()

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
		"description": "integration expense",
		"amount":      "50",
		"category":    "food",
		"type":        "expense",
		"accountId":   id,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "-50", accountBalance(t, ts.URL, token, id))

	// Leave no rows behind.
	status, _ = doJSON(t, http.MethodDelete, ts.URL+"/users/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
}
