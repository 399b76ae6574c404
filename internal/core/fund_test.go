package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAvailableBalance(t *testing.T) {
	txs := []Transaction{
		{Amount: d("30000"), Type: TransactionReleased},
		{Amount: d("20000"), Type: TransactionPending},
	}
	got := AvailableBalance(d("100000"), txs)
	if !got.Equal(d("70000")) {
		t.Fatalf("expected 70000, got %s", got)
	}
}

func TestAvailableBalanceIgnoresPending(t *testing.T) {
	withPending := AvailableBalance(d("500"), []Transaction{
		{Amount: d("100"), Type: TransactionPending},
		{Amount: d("50"), Type: TransactionReleased},
	})
	withoutPending := AvailableBalance(d("500"), []Transaction{
		{Amount: d("50"), Type: TransactionReleased},
	})
	if !withPending.Equal(withoutPending) {
		t.Fatalf("pending transactions changed the balance: %s vs %s", withPending, withoutPending)
	}
}

func TestAvailableBalanceMayGoNegative(t *testing.T) {
	got := AvailableBalance(d("100"), []Transaction{{Amount: d("150"), Type: TransactionReleased}})
	if !got.Equal(d("-50")) {
		t.Fatalf("expected -50, got %s", got)
	}
}

func TestRunningBalancesForward(t *testing.T) {
	history := []FundHistoryRecord{
		{Date: day("2025-07-01"), Amount: d("3000")},
		{Date: day("2025-06-01"), Amount: d("5000")},
	}
	out := RunningBalances(history)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if !out[0].Date.Equal(day("2025-06-01")) {
		t.Fatalf("expected oldest first, got %v", out[0].Date)
	}
	if !out[0].PreviousBalance.Equal(d("0")) || !out[0].NewBalance.Equal(d("5000")) {
		t.Fatalf("first record: prev=%s new=%s", out[0].PreviousBalance, out[0].NewBalance)
	}
	if !out[1].PreviousBalance.Equal(d("5000")) || !out[1].NewBalance.Equal(d("8000")) {
		t.Fatalf("second record: prev=%s new=%s", out[1].PreviousBalance, out[1].NewBalance)
	}
	// Final new balance reconciles with the cumulative fund total.
	if !out[1].NewBalance.Equal(TotalAdded(history)) {
		t.Fatalf("final balance %s does not equal fund total %s", out[1].NewBalance, TotalAdded(history))
	}
}

func TestRunningBalancesChain(t *testing.T) {
	history := []FundHistoryRecord{
		{Date: day("2025-03-01"), Amount: d("100.50")},
		{Date: day("2025-01-01"), Amount: d("200")},
		{Date: day("2025-02-01"), Amount: d("49.50")},
		{Date: day("2025-04-01"), Amount: d("1000")},
	}
	out := RunningBalances(history)
	for i := range out {
		if !out[i].NewBalance.Equal(out[i].PreviousBalance.Add(out[i].Amount)) {
			t.Fatalf("record %d: new != previous + amount", i)
		}
		if i > 0 && !out[i].PreviousBalance.Equal(out[i-1].NewBalance) {
			t.Fatalf("record %d: previous != prior new", i)
		}
	}
}

func TestRunningBalancesEmpty(t *testing.T) {
	if out := RunningBalances(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d records", len(out))
	}
	if out := LegacyRunningBalances(nil, d("70000")); len(out) != 0 {
		t.Fatalf("expected empty legacy output, got %d records", len(out))
	}
}

func TestLegacyRunningBalances(t *testing.T) {
	history := []FundHistoryRecord{
		{Date: day("2025-06-01"), Amount: d("5000")},
		{Date: day("2025-07-01"), Amount: d("3000")},
	}
	out := LegacyRunningBalances(history, d("70000"))

	// The newest entry is processed first (prev=70000, new=73000), then the
	// older one (prev=73000, new=78000); output is reversed oldest-first.
	if !out[0].Date.Equal(day("2025-06-01")) {
		t.Fatalf("expected oldest first after reversal, got %v", out[0].Date)
	}
	if !out[0].PreviousBalance.Equal(d("73000")) || !out[0].NewBalance.Equal(d("78000")) {
		t.Fatalf("oldest record: prev=%s new=%s", out[0].PreviousBalance, out[0].NewBalance)
	}
	if !out[1].PreviousBalance.Equal(d("70000")) || !out[1].NewBalance.Equal(d("73000")) {
		t.Fatalf("newest record: prev=%s new=%s", out[1].PreviousBalance, out[1].NewBalance)
	}
	// Adjacent-pair consistency holds within each record even though the
	// direction is inverted.
	for i := range out {
		if !out[i].NewBalance.Equal(out[i].PreviousBalance.Add(out[i].Amount)) {
			t.Fatalf("record %d: new != previous + amount", i)
		}
	}
}

func TestRunningBalancesDoNotMutateInput(t *testing.T) {
	history := []FundHistoryRecord{
		{Date: day("2025-07-01"), Amount: d("3000")},
		{Date: day("2025-06-01"), Amount: d("5000")},
	}
	_ = RunningBalances(history)
	if !history[0].Date.Equal(day("2025-07-01")) {
		t.Fatalf("input slice was reordered")
	}
	if !history[0].PreviousBalance.Equal(decimal.Zero) || !history[0].NewBalance.Equal(decimal.Zero) {
		t.Fatalf("input records were annotated in place")
	}
}

func TestFundHistoryRecordValidate(t *testing.T) {
	good := FundHistoryRecord{Date: day("2025-01-01"), Amount: d("500"), Source: "City treasury"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		rec  FundHistoryRecord
		want error
	}{
		{FundHistoryRecord{Date: day("2025-01-01"), Amount: d("0"), Source: "x"}, ErrInvalidAmount},
		{FundHistoryRecord{Date: day("2025-01-01"), Amount: d("-5"), Source: "x"}, ErrInvalidAmount},
		{FundHistoryRecord{Date: day("2025-01-01"), Amount: d("5"), Source: "  "}, ErrEmptySource},
		{FundHistoryRecord{Amount: d("5"), Source: "x"}, ErrMissingDate},
	}
	for i, tc := range cases {
		if err := tc.rec.Validate(); err != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}
