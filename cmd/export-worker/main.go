package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"financx/internal/amqp"
	"financx/internal/config"
	"financx/internal/export"
	"financx/internal/export/google"
	"financx/internal/ledger"
	"financx/internal/log"
	"financx/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("starting export worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if !cfg.ExportEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	writer, err := google.New(context.Background(), google.Config{
		SpreadsheetID:     cfg.GoogleSpreadsheetID,
		TransactionsSheet: cfg.GoogleTransactionsSheet,
		AccountsSheet:     cfg.GoogleAccountsSheet,
		CategoriesSheet:   cfg.GoogleCategoriesSheet,
	})
	if err != nil {
		logger.Error("failed to initialize sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exporter := export.NewExporter(ledger.New(store), writer, logger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	err = amqpClient.ConsumeExportRequests(ctx, func(msg *amqp.ExportRequestMessage) error {
		logger.Info("export request received", "requested_at", msg.RequestedAt, "reason", msg.Reason)
		return exporter.Export(ctx)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("export worker stopped gracefully")
}
