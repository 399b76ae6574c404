package services

import (
	"context"
	"fmt"
	"log/slog"

	"seniorcare/internal/core"
	"seniorcare/internal/reports"
	"seniorcare/internal/storage"
)

// ReportService builds the monthly fund report and pushes it to a sink.
type ReportService struct {
	storage *storage.Repository
	sink    reports.Sink
}

func NewReportService(storage *storage.Repository, sink reports.Sink) *ReportService {
	return &ReportService{storage: storage, sink: sink}
}

func (s *ReportService) Monthly(ctx context.Context, year, month int) (core.MonthlyFundReport, error) {
	if month < 1 || month > 12 {
		return core.MonthlyFundReport{}, fmt.Errorf("invalid month %d: %w", month, core.ErrInvalidAmount)
	}
	history, err := s.storage.ListFundHistory(ctx)
	if err != nil {
		return core.MonthlyFundReport{}, fmt.Errorf("load fund history: %w", err)
	}
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return core.MonthlyFundReport{}, fmt.Errorf("load transactions: %w", err)
	}
	return core.BuildMonthlyFundReport(year, month, history, transactions), nil
}

// Export builds the monthly report and publishes it to the configured sink.
// Without a sink this is a no-op with a warning, matching how the rest of
// the service degrades when optional collaborators are absent.
func (s *ReportService) Export(ctx context.Context, year, month int) error {
	if s.sink == nil {
		slog.WarnContext(ctx, "Report sink not configured, skipping export", "year", year, "month", month)
		return nil
	}
	report, err := s.Monthly(ctx, year, month)
	if err != nil {
		return err
	}
	if err := s.sink.PublishFundReport(ctx, report); err != nil {
		return fmt.Errorf("publish fund report: %w", err)
	}
	slog.InfoContext(ctx, "Fund report exported", "year", year, "month", month)
	return nil
}
