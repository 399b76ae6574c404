package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"seniorcare/internal/amqp"
	"seniorcare/internal/config"
	"seniorcare/internal/log"
	"seniorcare/internal/reports/sheets"
	"seniorcare/internal/services"
	"seniorcare/internal/storage"
	"seniorcare/internal/worker"
)

func main() {
	if err := run(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "notify-worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required for the worker")
	}

	logger := log.New(log.Config{Component: "notify-worker"})
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	broker, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueueReleases, cfg.AMQPQueueCategories)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer broker.Close()

	notify := worker.NewNotifyWorker(repo)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return broker.Consume(groupCtx, cfg.AMQPQueueReleases, func(body []byte) error {
			return notify.HandleBenefitReleased(groupCtx, body)
		})
	})
	group.Go(func() error {
		return broker.Consume(groupCtx, cfg.AMQPQueueCategories, func(body []byte) error {
			return notify.HandleCategoryChanged(groupCtx, body)
		})
	})

	// Periodic export of the current month's fund report, only when a
	// spreadsheet is configured.
	if cfg.GoogleSpreadsheetID != "" {
		sink, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Sheets export unavailable", "error", err)
		} else {
			reportSvc := services.NewReportService(repo, sink)
			group.Go(func() error {
				return exportLoop(groupCtx, reportSvc, cfg.ExportInterval)
			})
		}
	}

	logger.InfoContext(ctx, "Worker started",
		"queues", []string{cfg.AMQPQueueReleases, cfg.AMQPQueueCategories})
	return group.Wait()
}

func exportLoop(ctx context.Context, svc *services.ReportService, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			if err := svc.Export(ctx, now.Year(), int(now.Month())); err != nil {
				// Keep going; the next tick retries.
				slog.ErrorContext(ctx, "Fund report export failed", "error", err)
			}
		}
	}
}
