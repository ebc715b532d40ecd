// Package http serves the ledger as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"financx/internal/core"
	"financx/internal/ledger"
	"financx/internal/log"
)

// Ledger is the slice of the ledger service the handlers use. It is
// satisfied by *ledger.Service.
type Ledger interface {
	CreateAccount(ctx context.Context, name, initialBalance string) (core.Account, error)
	UpdateAccount(ctx context.Context, id int64, name, initialBalance string) (core.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	ListAccounts(ctx context.Context) ([]core.Account, error)

	CreateCategory(ctx context.Context, name, typ string) (core.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, typ string) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, typ string) ([]core.Category, error)

	AddTransaction(ctx context.Context, in ledger.TransactionInput) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in ledger.TransactionInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error)
	TransactionsInRange(ctx context.Context, start, end string) ([]core.Transaction, error)

	SetBudget(ctx context.Context, categoryID int64, month, amount string) error
	BudgetRows(ctx context.Context, month string) ([]core.BudgetRow, error)

	SpendingByCategory(ctx context.Context, start, end string) ([]core.ReportRow, error)
	Dashboard(ctx context.Context) (ledger.Dashboard, error)

	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

// ExportFunc kicks off a spreadsheet export, either inline or by queueing
// a request for the worker. A nil ExportFunc disables the endpoint.
type ExportFunc func(ctx context.Context) error

// Server is the JSON API server.
type Server struct {
	http.Server
	svc      Ledger
	exportFn ExportFunc
	logger   *log.Logger
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, svc Ledger, exportFn ExportFunc, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		svc:      svc,
		exportFn: exportFn,
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/accounts", s.withRequestLogging(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withRequestLogging(s.handleCreateAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.withRequestLogging(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withRequestLogging(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/categories", s.withRequestLogging(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withRequestLogging(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withRequestLogging(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withRequestLogging(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/transactions", s.withRequestLogging(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withRequestLogging(s.handleAddTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.withRequestLogging(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withRequestLogging(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withRequestLogging(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budgets", s.withRequestLogging(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets", s.withRequestLogging(s.handleSetBudget))

	mux.HandleFunc("GET /api/reports/spending", s.withRequestLogging(s.handleSpendingReport))
	mux.HandleFunc("GET /api/dashboard", s.withRequestLogging(s.handleDashboard))

	mux.HandleFunc("GET /api/settings/theme", s.withRequestLogging(s.handleGetTheme))
	mux.HandleFunc("PUT /api/settings/theme", s.withRequestLogging(s.handleSetTheme))

	mux.HandleFunc("POST /api/export", s.withRequestLogging(s.handleExport))

	return s
}

// withRequestLogging adds security headers, a request id, and start/finish
// logging to a handler.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
