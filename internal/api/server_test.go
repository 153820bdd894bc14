package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capling-app/capling/internal/engine"
	"github.com/capling-app/capling/internal/insights"
	"github.com/capling-app/capling/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *engine.MockReasoner) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	reasoner := engine.NewMockReasoner()
	processor := engine.New(store, reasoner, nil)
	insightsSvc := insights.NewService(store, insights.DefaultScoringConfig(), 500, nil)
	return NewServer(processor, insightsSvc, nil), reasoner
}

func doJSON(t *testing.T, server *Server, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)
	resp, body := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_CreateTransaction(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"userId":   "user-1",
		"merchant": "Corner Grocery",
		"amount":   5.50,
		"category": "food",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 994.50, body["newBalance"].(float64), 0.001)
	assert.Equal(t, false, body["shouldShowGoalAllocation"])

	analysis, ok := body["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "responsible", analysis["classification"])
	assert.NotEmpty(t, analysis["reflection"])

	txn, ok := body["transaction"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Corner Grocery", txn["merchant"])
	assert.Equal(t, "debit", txn["type"])
}

func TestServer_CreateTransaction_Failures(t *testing.T) {
	tests := []struct {
		body       map[string]any
		name       string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "missing user id",
			body:       map[string]any{"merchant": "Store", "amount": 10, "category": "shopping"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_ERROR",
		},
		{
			name:       "missing merchant",
			body:       map[string]any{"userId": "user-1", "amount": 10, "category": "shopping"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "invalid category",
			body:       map[string]any{"userId": "user-1", "merchant": "Store", "amount": 10, "category": "nope"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "amount out of range",
			body:       map[string]any{"userId": "user-1", "merchant": "Store", "amount": 99999, "category": "shopping"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t)
			resp, body := doJSON(t, server, http.MethodPost, "/transactions", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServer_ClassifierOutageStillSucceeds(t *testing.T) {
	server, reasoner := newTestServer(t)
	reasoner.AnalyzeErr = fmt.Errorf("provider down")

	resp, body := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"userId":   "user-1",
		"merchant": "Mystery Store",
		"amount":   20,
		"category": "shopping",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, "neutral", analysis["classification"])
}

func TestServer_ListTransactions(t *testing.T) {
	server, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
			"userId":   "user-1",
			"merchant": "Store",
			"amount":   10,
			"category": "shopping",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, server, http.MethodGet, "/transactions?userId=user-1&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)

	resp, body = doJSON(t, server, http.MethodGet, "/transactions", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_ERROR", body["code"])
}

func TestServer_Justify(t *testing.T) {
	server, _ := newTestServer(t)

	resp, created := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"userId":   "user-1",
		"merchant": "Lucky Casino",
		"amount":   75,
		"category": "entertainment",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	txnID := created["transaction"].(map[string]any)["id"].(string)

	resp, body := doJSON(t, server, http.MethodPost, "/transactions/"+txnID+"/justify", map[string]any{
		"justification": "I needed a gift for my brother",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["accepted"])
	txn := body["transaction"].(map[string]any)
	assert.Equal(t, "justified", txn["justification_status"])
	assert.Equal(t, "responsible", txn["final_classification"])

	// Second attempt conflicts.
	resp, body = doJSON(t, server, http.MethodPost, "/transactions/"+txnID+"/justify", map[string]any{
		"justification": "still needed it",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["code"])

	// Unknown transaction is a 404.
	resp, body = doJSON(t, server, http.MethodPost, "/transactions/nope/justify", map[string]any{
		"justification": "I needed it",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestServer_Insights(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, server, http.MethodPost, "/transactions", map[string]any{
		"userId":   "user-1",
		"merchant": "Corner Grocery",
		"amount":   25,
		"category": "food",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, server, http.MethodGet, "/insights?userId=user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	insightsBody, ok := body["insights"].(map[string]any)
	require.True(t, ok)

	mood, ok := insightsBody["mood"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, mood["mood"])

	badges, ok := insightsBody["badges"].([]any)
	require.True(t, ok)
	assert.Len(t, badges, 8)

	resp, body = doJSON(t, server, http.MethodGet, "/insights", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_ERROR", body["code"])
}
