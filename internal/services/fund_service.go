package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"seniorcare/internal/core"
	"seniorcare/internal/storage"
)

// FundService owns the government-fund ledger: additions, deletions, and
// the derived available balance.
type FundService struct {
	storage *storage.Repository
}

func NewFundService(storage *storage.Repository) *FundService {
	return &FundService{storage: storage}
}

// FundOverview is the ledger as shown on the fund page.
type FundOverview struct {
	TotalFund        decimal.Decimal
	AvailableBalance decimal.Decimal
	History          []core.FundHistoryRecord
}

// Overview returns the fund total, the available balance, and the history
// annotated with running balances (oldest first).
func (s *FundService) Overview(ctx context.Context) (FundOverview, error) {
	fund, err := s.storage.GetFund(ctx)
	if err != nil {
		return FundOverview{}, fmt.Errorf("load fund: %w", err)
	}
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return FundOverview{}, fmt.Errorf("load transactions: %w", err)
	}
	history, err := s.storage.ListFundHistory(ctx)
	if err != nil {
		return FundOverview{}, fmt.Errorf("load fund history: %w", err)
	}

	return FundOverview{
		TotalFund:        fund.CurrentBalance,
		AvailableBalance: core.AvailableBalance(fund.CurrentBalance, transactions),
		History:          core.RunningBalances(history),
	}, nil
}

// AddFund validates and appends a fund addition. Not idempotent: calling it
// twice books the amount twice.
func (s *FundService) AddFund(ctx context.Context, rec core.FundHistoryRecord) (core.FundHistoryRecord, error) {
	if err := rec.Validate(); err != nil {
		return core.FundHistoryRecord{}, err
	}
	created, err := s.storage.AddFundRecord(ctx, rec)
	if err != nil {
		return core.FundHistoryRecord{}, fmt.Errorf("add fund: %w", err)
	}
	return created, nil
}

// DeleteFundRecord removes a history entry and rolls its amount out of the
// fund total.
func (s *FundService) DeleteFundRecord(ctx context.Context, id int64) error {
	return s.storage.DeleteFundRecord(ctx, id)
}

func (s *FundService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

// RecordRelease books a released disbursement directly against the fund,
// for payouts made outside the application workflow.
func (s *FundService) RecordRelease(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if !t.Amount.IsPositive() {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return core.Transaction{}, core.ErrMissingDate
	}
	t.Type = core.TransactionReleased
	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record release: %w", err)
	}
	return created, nil
}
