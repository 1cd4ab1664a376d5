package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/middleware"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestServer wires every handler against a fresh in-memory store,
// exactly as internal/server does against Postgres.
func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	log := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "fintrack-test", time.Hour)
	authn := middleware.NewAuthenticator(tokens, store, store, log).Require

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewUserHandler(store, store, tokens, log).Register(mux, authn)
	NewAccountHandler(store, log).Register(mux, authn)
	NewTransactionHandler(store, log).Register(mux, authn)
	NewBillHandler(store, log).Register(mux, authn)
	NewGoalHandler(store, log).Register(mux, authn)
	NewBudgetHandler(store, log).Register(mux, authn)
	NewDashboardHandler(store, store, store, log).Register(mux, authn)
	NewReportHandler(store, store, store, log).Register(mux, authn)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, store
}

// doJSON issues a request with an optional bearer token and JSON body and
// decodes the response envelope.
func doJSON(t *testing.T, method, url, token string, body any) (int, testEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

// registerUser creates a user through the API and returns the token.
func registerUser(t *testing.T, baseURL, name, email string) string {
	t.Helper()
	status, envelope := doJSON(t, http.MethodPost, baseURL+"/users/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, status)

	var authResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &authResp))
	require.NotEmpty(t, authResp.Token)
	return authResp.Token
}
