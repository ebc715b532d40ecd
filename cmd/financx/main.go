package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financx/internal/amqp"
	"financx/internal/config"
	"financx/internal/export"
	"financx/internal/export/google"
	apphttp "financx/internal/http"
	"financx/internal/ledger"
	"financx/internal/log"
	"financx/internal/storage"
)

func main() {
	// Load .env for local development; absent in production is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	svc := ledger.New(store)

	exportFn, cleanup, err := buildExportFunc(cfg, svc, logger)
	if err != nil {
		logger.Error("failed to configure export", log.FieldError, err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, exportFn, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting financx server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}

// buildExportFunc wires the export endpoint. With AMQP configured, exports
// are queued for the worker; otherwise, with a spreadsheet configured,
// they run inline; with neither, the endpoint is disabled.
func buildExportFunc(cfg *config.Config, svc *ledger.Service, logger *log.Logger) (apphttp.ExportFunc, func(), error) {
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("export requests will be queued", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		fn := func(ctx context.Context) error {
			return client.PublishExportRequest(ctx, "api")
		}
		return fn, func() { client.Close() }, nil
	}

	if cfg.ExportEnabled() {
		writer, err := google.New(context.Background(), google.Config{
			SpreadsheetID:     cfg.GoogleSpreadsheetID,
			TransactionsSheet: cfg.GoogleTransactionsSheet,
			AccountsSheet:     cfg.GoogleAccountsSheet,
			CategoriesSheet:   cfg.GoogleCategoriesSheet,
		})
		if err != nil {
			return nil, nil, err
		}
		exporter := export.NewExporter(svc, writer, logger.WithComponent(log.ComponentExport).Logger)
		logger.Info("exports run inline", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return exporter.Export, nil, nil
	}

	logger.Info("export disabled - no AMQP_URL or GOOGLE_SPREADSHEET_ID provided")
	return nil, nil, nil
}
