package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seniorcare/internal/core"
	"seniorcare/internal/reports/memory"
)

func TestMonthlyReport(t *testing.T) {
	repo := newTestRepo(t)
	fund := NewFundService(repo)
	svc := NewReportService(repo, nil)
	ctx := context.Background()

	_, err := fund.AddFund(ctx, core.FundHistoryRecord{
		Date:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Amount: d(t, "50000"),
		Source: "City treasury",
	})
	require.NoError(t, err)
	_, err = fund.AddFund(ctx, core.FundHistoryRecord{
		Date:   time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
		Amount: d(t, "20000"),
		Source: "Provincial grant",
	})
	require.NoError(t, err)

	_, err = repo.CreateTransaction(ctx, core.Transaction{
		Date:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Amount:     d(t, "3000"),
		Type:       core.TransactionReleased,
		Category:   string(core.CategoryRegular),
		SeniorName: "Lourdes Reyes",
		Barangay:   "San Isidro",
	})
	require.NoError(t, err)

	report, err := svc.Monthly(ctx, 2025, 6)
	require.NoError(t, err)
	require.True(t, report.Added.Equal(d(t, "50000")))
	require.True(t, report.Released.Equal(d(t, "3000")))
	require.Len(t, report.ByCategory, 1)
	require.Equal(t, string(core.CategoryRegular), report.ByCategory[0].Name)

	_, err = svc.Monthly(ctx, 2025, 13)
	require.Error(t, err)
}

func TestExportPublishesToSink(t *testing.T) {
	repo := newTestRepo(t)
	fund := NewFundService(repo)
	sink := memory.New()
	svc := NewReportService(repo, sink)
	ctx := context.Background()

	_, err := fund.AddFund(ctx, core.FundHistoryRecord{
		Date:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Amount: d(t, "50000"),
		Source: "City treasury",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Export(ctx, 2025, 6))

	published := sink.Published()
	require.Len(t, published, 1)
	require.Equal(t, 2025, published[0].Year)
	require.True(t, published[0].Added.Equal(d(t, "50000")))
}

func TestExportWithoutSinkIsNoop(t *testing.T) {
	svc := NewReportService(newTestRepo(t), nil)
	require.NoError(t, svc.Export(context.Background(), 2025, 6))
}
