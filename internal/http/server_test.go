package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"financx/internal/ledger"
	"financx/internal/log"
	"financx/internal/storage"
)

func newTestServer(t *testing.T, exportFn ExportFunc) *httptest.Server {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(log.Config{
		Component: log.ComponentHTTP,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
	srv := NewServer(":0", ledger.New(store), exportFn, logger)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) (*nethttp.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := nethttp.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func dataMap(t *testing.T, env envelope) map[string]any {
	t.Helper()
	m, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want object", env.Data)
	}
	return m
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, env := doJSON(t, ts, "POST", "/api/accounts", map[string]string{
		"name":            "Checking",
		"initial_balance": "100.00",
	})
	if resp.StatusCode != nethttp.StatusCreated || !env.Success {
		t.Fatalf("create account: status %d, env %+v", resp.StatusCode, env)
	}
	account := dataMap(t, env)
	id := int64(account["id"].(float64))
	if account["current_balance"] != "100.00" {
		t.Errorf("current_balance = %v, want 100.00", account["current_balance"])
	}

	resp, env = doJSON(t, ts, "POST", "/api/transactions", map[string]any{
		"account_id":  id,
		"date":        "2024-03-01",
		"description": "Groceries",
		"amount":      "-30.00",
	})
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("add transaction: status %d, env %+v", resp.StatusCode, env)
	}

	resp, env = doJSON(t, ts, "GET", "/api/accounts", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("list accounts: status %d", resp.StatusCode)
	}
	accounts := env.Data.([]any)
	if len(accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(accounts))
	}
	if got := accounts[0].(map[string]any)["current_balance"]; got != "70.00" {
		t.Errorf("balance after expense = %v, want 70.00", got)
	}

	resp, _ = doJSON(t, ts, "DELETE", fmt.Sprintf("/api/accounts/%d", id), nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("delete account: status %d", resp.StatusCode)
	}
	resp, env = doJSON(t, ts, "GET", "/api/transactions", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("list transactions: status %d", resp.StatusCode)
	}
	if env.Data != nil && len(env.Data.([]any)) != 0 {
		t.Errorf("transactions after account delete = %v, want none", env.Data)
	}
}

func TestValidationErrorsMapToStatusAndKind(t *testing.T) {
	ts := newTestServer(t, nil)

	cases := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantKind   string
	}{
		{"empty account name", "POST", "/api/accounts", map[string]string{"name": "  "}, 422, "empty_name"},
		{"bad amount", "POST", "/api/accounts", map[string]string{"name": "A", "initial_balance": "x"}, 422, "invalid_amount"},
		{"bad category type", "POST", "/api/categories", map[string]string{"name": "Food", "type": "weird"}, 422, "invalid_type"},
		{"unknown transaction", "GET", "/api/transactions/9999", nil, 404, "not_found"},
		{"bad month", "GET", "/api/budgets?month=March", nil, 422, "invalid_month"},
		{"bad report dates", "GET", "/api/reports/spending?start=x&end=y", nil, 422, "invalid_date"},
		{"bad theme", "PUT", "/api/settings/theme", map[string]string{"theme": "sepia"}, 422, "invalid_theme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := doJSON(t, ts, tc.method, tc.path, tc.body)
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if env.Success || env.Error == nil || env.Error.Kind != tc.wantKind {
				t.Errorf("envelope = %+v, want error kind %q", env, tc.wantKind)
			}
		})
	}
}

func TestDuplicateAccountNameConflicts(t *testing.T) {
	ts := newTestServer(t, nil)

	doJSON(t, ts, "POST", "/api/accounts", map[string]string{"name": "Checking"})
	resp, env := doJSON(t, ts, "POST", "/api/accounts", map[string]string{"name": "checking"})
	if resp.StatusCode != nethttp.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Kind != "duplicate_name" {
		t.Errorf("envelope = %+v, want duplicate_name", env)
	}
}

func TestProtectedCategoryConflicts(t *testing.T) {
	ts := newTestServer(t, nil)

	_, env := doJSON(t, ts, "GET", "/api/categories", nil)
	categories := env.Data.([]any)
	if len(categories) != 1 {
		t.Fatalf("fresh categories = %d, want 1", len(categories))
	}
	id := int64(categories[0].(map[string]any)["id"].(float64))

	resp, env := doJSON(t, ts, "DELETE", fmt.Sprintf("/api/categories/%d", id), nil)
	if resp.StatusCode != nethttp.StatusConflict || env.Error == nil || env.Error.Kind != "protected_category" {
		t.Errorf("delete fallback: status %d, env %+v", resp.StatusCode, env)
	}
}

func TestBudgetEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	_, env := doJSON(t, ts, "POST", "/api/categories", map[string]string{"name": "Food", "type": "expense"})
	categoryID := int64(dataMap(t, env)["id"].(float64))

	resp, _ := doJSON(t, ts, "PUT", "/api/budgets", map[string]any{
		"category_id": categoryID,
		"month":       "2024-03",
		"amount":      "100.00",
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("set budget: status %d", resp.StatusCode)
	}

	resp, env = doJSON(t, ts, "GET", "/api/budgets?month=2024-03", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("list budgets: status %d", resp.StatusCode)
	}
	rows := env.Data.([]any)
	if len(rows) != 1 {
		t.Fatalf("budget rows = %d, want 1", len(rows))
	}
	row := rows[0].(map[string]any)
	if row["budgeted_amount"] != "100.00" || row["spent_amount"] != "0.00" {
		t.Errorf("row = %+v, want budgeted 100.00 spent 0.00", row)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	doJSON(t, ts, "POST", "/api/accounts", map[string]string{"name": "Checking", "initial_balance": "10.00"})
	resp, env := doJSON(t, ts, "GET", "/api/dashboard", nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("dashboard: status %d", resp.StatusCode)
	}
	dash := dataMap(t, env)
	if dash["account_count"].(float64) != 1 {
		t.Errorf("account_count = %v, want 1", dash["account_count"])
	}
	if dash["net_total"] != "10.00" {
		t.Errorf("net_total = %v, want 10.00", dash["net_total"])
	}
}

func TestExportEndpoint(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ts := newTestServer(t, nil)
		resp, env := doJSON(t, ts, "POST", "/api/export", nil)
		if resp.StatusCode != nethttp.StatusServiceUnavailable || env.Error == nil || env.Error.Kind != "export_disabled" {
			t.Errorf("status %d, env %+v, want 503 export_disabled", resp.StatusCode, env)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		called := false
		ts := newTestServer(t, func(context.Context) error {
			called = true
			return nil
		})
		resp, _ := doJSON(t, ts, "POST", "/api/export", nil)
		if resp.StatusCode != nethttp.StatusAccepted || !called {
			t.Errorf("status %d, called %v, want 202 and export call", resp.StatusCode, called)
		}
	})

	t.Run("failure", func(t *testing.T) {
		ts := newTestServer(t, func(context.Context) error {
			return errors.New("broker down")
		})
		resp, env := doJSON(t, ts, "POST", "/api/export", nil)
		if resp.StatusCode != nethttp.StatusInternalServerError || env.Error == nil || env.Error.Kind != "internal" {
			t.Errorf("status %d, env %+v, want 500 internal", resp.StatusCode, env)
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != nethttp.StatusOK {
			t.Errorf("GET %s: status %d, want 200", path, resp.StatusCode)
		}
	}
}
