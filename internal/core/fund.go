package core

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrEmptySource     = errors.New("empty fund source")
	ErrMissingDate     = errors.New("missing date")
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("fund aggregate modified concurrently")
)

type TransactionType string

const (
	TransactionReleased TransactionType = "released"
	TransactionPending  TransactionType = "pending"
)

// Transaction is a disbursement or allocation event against the fund,
// independent of the fund-addition history.
type Transaction struct {
	ID            int64
	Date          time.Time
	Amount        decimal.Decimal
	Type          TransactionType
	Category      string
	SeniorName    string
	Barangay      string
	Description   string
	ApplicationID int64
}

// FundHistoryRecord is one append-only fund addition. PreviousBalance and
// NewBalance are derived for display, never stored authoritatively.
type FundHistoryRecord struct {
	ID              int64
	Date            time.Time
	Amount          decimal.Decimal
	Source          string
	Description     string
	ReceiptURL      string
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
}

func (r FundHistoryRecord) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Source) == "" {
		return ErrEmptySource
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// GovernmentFund is the singleton aggregate holding the cumulative total of
// all fund additions. Version guards against lost updates: every write must
// match the version it read.
type GovernmentFund struct {
	ID             int64
	CurrentBalance decimal.Decimal
	Version        int64
}

// AvailableBalance is the fund total minus everything released. Pending
// transactions do not reduce it. A negative result is a data-quality signal,
// not an error.
func AvailableBalance(totalFund decimal.Decimal, transactions []Transaction) decimal.Decimal {
	released := decimal.Zero
	for _, t := range transactions {
		if t.Type == TransactionReleased {
			released = released.Add(t.Amount)
		}
	}
	return totalFund.Sub(released)
}

// RunningBalances annotates history entries with previous/new balances by
// walking oldest to newest from zero. The last entry's new balance equals
// the cumulative fund total, so the result reconciles exactly against
// GovernmentFund.CurrentBalance. Entries come back oldest first.
func RunningBalances(history []FundHistoryRecord) []FundHistoryRecord {
	out := make([]FundHistoryRecord, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	running := decimal.Zero
	for i := range out {
		out[i].PreviousBalance = running
		out[i].NewBalance = running.Add(out[i].Amount)
		running = out[i].NewBalance
	}
	return out
}

// LegacyRunningBalances reproduces the reconstruction the previous system
// displayed: walk newest to oldest starting from the current available
// balance, adding each amount while moving into the past, then reverse so
// the oldest entry is shown first. The accumulation direction is inverted
// relative to RunningBalances and does not reconcile against the fund
// total; it is kept only so existing ledger screens read identically.
func LegacyRunningBalances(history []FundHistoryRecord, available decimal.Decimal) []FundHistoryRecord {
	out := make([]FundHistoryRecord, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })

	running := available
	for i := range out {
		out[i].PreviousBalance = running
		out[i].NewBalance = running.Add(out[i].Amount)
		running = out[i].NewBalance
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// TotalAdded sums fund additions, optionally restricted by a filter.
func TotalAdded(history []FundHistoryRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range history {
		total = total.Add(r.Amount)
	}
	return total
}
