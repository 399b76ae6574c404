package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"seniorcare/internal/amqp"
	"seniorcare/internal/config"
	"seniorcare/internal/http"
	"seniorcare/internal/log"
	"seniorcare/internal/reports/sheets"
	"seniorcare/internal/services"
	"seniorcare/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seniorcare: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(log.Config{Component: "api"})
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	// The broker is optional: without it the service runs and events are
	// skipped with a warning.
	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueueReleases, cfg.AMQPQueueCategories)
		if err != nil {
			logger.WarnContext(ctx, "AMQP broker unavailable, events disabled", "error", err)
		} else {
			defer broker.Close()
		}
	}

	receipts, err := http.NewReceiptStore(cfg.ReceiptDir, cfg.ReceiptBaseURL)
	if err != nil {
		return err
	}

	var reportSvc *services.ReportService
	if cfg.GoogleSpreadsheetID != "" {
		sink, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Sheets export unavailable", "error", err)
			reportSvc = services.NewReportService(repo, nil)
		} else {
			reportSvc = services.NewReportService(repo, sink)
		}
	} else {
		reportSvc = services.NewReportService(repo, nil)
	}

	server := http.NewServer(cfg, http.Deps{
		Seniors:      services.NewSeniorService(repo, broker),
		Applications: services.NewApplicationService(repo, broker),
		Fund:         services.NewFundService(repo),
		Reports:      reportSvc,
		Receipts:     receipts,
		Ready:        repo.Ping,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.InfoContext(ctx, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
