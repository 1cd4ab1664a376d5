package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-be/internal/models"
)

func createAccount(t *testing.T, baseURL, token string) models.Account {
	t.Helper()
	status, envelope := doJSON(t, http.MethodPost, baseURL+"/accounts", token, map[string]any{
		"name": "Checking",
		"type": "checking",
	})
	require.Equal(t, http.StatusCreated, status)
	var account models.Account
	require.NoError(t, json.Unmarshal(envelope.Data, &account))
	return account
}

func accountBalance(t *testing.T, baseURL, token string, id string) string {
	t.Helper()
	status, envelope := doJSON(t, http.MethodGet, baseURL+"/accounts/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	var account struct {
		Balance string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &account))
	return account.Balance
}

func TestTransactionLedgerKeepsAccountBalance(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerUser(t, ts.URL, "Ada", "ada@example.com")
	account := createAccount(t, ts.URL, token)
	id := account.ID.String()

	require.Equal(t, "0", accountBalance(t, ts.URL, token, id))

	status, envelope := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
		"description": "groceries",
		"amount":      "50",
		"category":    "food",
		"type":        "expense",
		"accountId":   id,
	})
	require.Equal(t, http.StatusCreated, status)
	var created models.Transaction
	require.NoError(t, json.Unmarshal(envelope.Data, &created))

	assert.Equal(t, "-50", accountBalance(t, ts.URL, token, id))

	// Amending the amount replays the old delta and applies the new one.
	status, _ = doJSON(t, http.MethodPatch, ts.URL+"/transactions/"+created.ID.String(), token, map[string]any{
		"amount": "30",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "-30", accountBalance(t, ts.URL, token, id))

	status, _ = doJSON(t, http.MethodDelete, ts.URL+"/transactions/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", accountBalance(t, ts.URL, token, id))
}

func TestTransactionIncomeAndExpenseSigns(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerUser(t, ts.URL, "Ada", "ada@example.com")
	account := createAccount(t, ts.URL, token)
	id := account.ID.String()

	for _, tc := range []struct {
		txType string
		amount string
		want   string
	}{
		{"income", "100", "100"},
		{"expense", "40", "60"},
	} {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
			"description": "entry",
			"amount":      tc.amount,
			"category":    "other",
			"type":        tc.txType,
			"accountId":   id,
		})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, tc.want, accountBalance(t, ts.URL, token, id))
	}
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerUser(t, ts.URL, "Ada", "ada@example.com")
	other := registerUser(t, ts.URL, "Eve", "eve@example.com")
	foreign := createAccount(t, ts.URL, other)

	// Another user's account must look exactly like a missing one.
	status, envelope := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
		"description": "sneaky",
		"amount":      "10",
		"category":    "other",
		"type":        "expense",
		"accountId":   foreign.ID.String(),
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, envelope.Message, "Account not found")
}

func TestTransactionOwnership(t *testing.T) {
	ts, _ := newTestServer(t)
	owner := registerUser(t, ts.URL, "Ada", "ada@example.com")
	intruder := registerUser(t, ts.URL, "Eve", "eve@example.com")

	status, envelope := doJSON(t, http.MethodPost, ts.URL+"/transactions", owner, map[string]any{
		"description": "salary",
		"amount":      "100",
		"category":    "other",
		"type":        "income",
	})
	require.Equal(t, http.StatusCreated, status)
	var created models.Transaction
	require.NoError(t, json.Unmarshal(envelope.Data, &created))

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var body any
		if method == http.MethodPatch {
			body = map[string]any{"amount": "1"}
		}
		status, envelope := doJSON(t, method, ts.URL+"/transactions/"+created.ID.String(), intruder, body)
		assert.Equal(t, http.StatusForbidden, status, method)
		assert.Equal(t, "access denied", envelope.Message, method)
	}

	// The owner still sees the untouched record.
	status, _ = doJSON(t, http.MethodGet, ts.URL+"/transactions/"+created.ID.String(), owner, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestListTransactionsPagination(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerUser(t, ts.URL, "Ada", "ada@example.com")

	for i := 0; i < 7; i++ {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
			"description": fmt.Sprintf("entry %d", i),
			"amount":      "10",
			"category":    "food",
			"type":        "expense",
			"date":        fmt.Sprintf("2026-08-%02dT00:00:00Z", i+1),
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, envelope := doJSON(t, http.MethodGet, ts.URL+"/transactions?limit=3&page=2", token, nil)
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Count        int                  `json:"count"`
		Total        int64                `json:"total"`
		Page         int                  `json:"page"`
		Pages        int                  `json:"pages"`
		Transactions []models.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &page))
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Transactions, 3)
}

func TestListTransactionsFilterValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerUser(t, ts.URL, "Ada", "ada@example.com")

	for _, query := range []string{"?type=transfer", "?category=misc", "?limit=-1", "?page=0", "?accountId=abc"} {
		status, _ := doJSON(t, http.MethodGet, ts.URL+"/transactions"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, status, query)
	}
}

func TestExpenseBreakdownEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	token := registerUser(t, ts.URL, "Ada", "ada@example.com")

	entries := []struct {
		category string
		amount   string
		txType   string
	}{
		{"food", "75", "expense"},
		{"housing", "25", "expense"},
		{"other", "500", "income"},
	}
	for _, e := range entries {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/transactions", token, map[string]any{
			"description": "entry",
			"amount":      e.amount,
			"category":    e.category,
			"type":        e.txType,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, envelope := doJSON(t, http.MethodGet, ts.URL+"/transactions/breakdown", token, nil)
	require.Equal(t, http.StatusOK, status)

	var breakdown struct {
		TotalExpenses string `json:"totalExpenses"`
		Categories    []struct {
			Category   string `json:"category"`
			Amount     string `json:"amount"`
			Percentage int64  `json:"percentage"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &breakdown))
	assert.Equal(t, "100", breakdown.TotalExpenses)
	require.Len(t, breakdown.Categories, 2)
	assert.Equal(t, "Food", breakdown.Categories[0].Category)
	assert.Equal(t, int64(75), breakdown.Categories[0].Percentage)
	assert.Equal(t, "Housing", breakdown.Categories[1].Category)
	assert.Equal(t, int64(25), breakdown.Categories[1].Percentage)
}
