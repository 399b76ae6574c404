package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Benefit is a grantable benefit with a fixed disbursement amount.
type Benefit struct {
	ID          int64
	Name        string
	Amount      decimal.Decimal
	Description string
}

// CategoryAmount is one row of a per-category breakdown.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthlyFundReport summarizes fund movement for one calendar month.
type MonthlyFundReport struct {
	Year       int
	Month      int
	Added      decimal.Decimal
	Released   decimal.Decimal
	Pending    decimal.Decimal
	Available  decimal.Decimal
	ByCategory []CategoryAmount
}

// InMonth reports whether t falls in the given year and month.
func InMonth(t time.Time, year, month int) bool {
	return t.Year() == year && int(t.Month()) == month
}

// BuildMonthlyFundReport computes the month's additions, releases, and
// pending allocations from full history and transaction lists. Available is
// the overall available balance after the month's movement, not a
// month-scoped figure.
func BuildMonthlyFundReport(year, month int, history []FundHistoryRecord, transactions []Transaction) MonthlyFundReport {
	report := MonthlyFundReport{
		Year:     year,
		Month:    month,
		Added:    decimal.Zero,
		Released: decimal.Zero,
		Pending:  decimal.Zero,
	}

	for _, r := range history {
		if InMonth(r.Date, year, month) {
			report.Added = report.Added.Add(r.Amount)
		}
	}

	byCategory := map[string]decimal.Decimal{}
	var categories []string
	for _, t := range transactions {
		if !InMonth(t.Date, year, month) {
			continue
		}
		switch t.Type {
		case TransactionReleased:
			report.Released = report.Released.Add(t.Amount)
			name := t.Category
			if name == "" {
				name = "Uncategorized"
			}
			if _, seen := byCategory[name]; !seen {
				categories = append(categories, name)
			}
			byCategory[name] = byCategory[name].Add(t.Amount)
		case TransactionPending:
			report.Pending = report.Pending.Add(t.Amount)
		}
	}

	for _, name := range categories {
		report.ByCategory = append(report.ByCategory, CategoryAmount{Name: name, Amount: byCategory[name]})
	}

	report.Available = AvailableBalance(TotalAdded(history), transactions)
	return report
}
