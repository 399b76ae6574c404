package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"seniorcare/internal/core"
)

func (r *Repository) GetFund(ctx context.Context) (core.GovernmentFund, error) {
	return getFund(ctx, r.db)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getFund(ctx context.Context, q querier) (core.GovernmentFund, error) {
	var f core.GovernmentFund
	var balance string
	err := q.QueryRowContext(ctx,
		`SELECT id, current_balance, version FROM government_fund WHERE id = 1`).
		Scan(&f.ID, &balance, &f.Version)
	if err != nil {
		return core.GovernmentFund{}, fmt.Errorf("get government fund: %w", err)
	}
	if f.CurrentBalance, err = parseDecimal(balance); err != nil {
		return core.GovernmentFund{}, err
	}
	return f, nil
}

// AddFundRecord appends a fund-history entry and increments the fund total
// in one transaction. The government_fund row is written with an optimistic
// version check; a concurrent mutation surfaces as ErrVersionConflict.
func (r *Repository) AddFundRecord(ctx context.Context, rec core.FundHistoryRecord) (core.FundHistoryRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.FundHistoryRecord{}, fmt.Errorf("begin fund add: %w", err)
	}
	defer tx.Rollback()

	fund, err := getFund(ctx, tx)
	if err != nil {
		return core.FundHistoryRecord{}, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO fund_history (date, amount, source, description, receipt_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Date.Format(timestampLayout), rec.Amount.String(), rec.Source,
		rec.Description, rec.ReceiptURL, time.Now().UTC().Format(timestampLayout))
	if err != nil {
		return core.FundHistoryRecord{}, fmt.Errorf("insert fund history: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return core.FundHistoryRecord{}, fmt.Errorf("fund history id: %w", err)
	}

	newBalance := fund.CurrentBalance.Add(rec.Amount)
	if err := writeFundBalance(ctx, tx, newBalance.String(), fund.Version); err != nil {
		return core.FundHistoryRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.FundHistoryRecord{}, fmt.Errorf("commit fund add: %w", err)
	}

	slog.InfoContext(ctx, "Fund addition recorded",
		"id", rec.ID, "amount", rec.Amount, "source", rec.Source, "balance", newBalance)
	return rec, nil
}

// DeleteFundRecord removes a history entry and decrements the fund total
// by its amount, atomically.
func (r *Repository) DeleteFundRecord(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fund delete: %w", err)
	}
	defer tx.Rollback()

	var amountStr string
	err = tx.QueryRowContext(ctx, `SELECT amount FROM fund_history WHERE id = ?`, id).Scan(&amountStr)
	if err == sql.ErrNoRows {
		return fmt.Errorf("fund history %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get fund history amount: %w", err)
	}
	amount, err := parseDecimal(amountStr)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fund_history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete fund history: %w", err)
	}

	fund, err := getFund(ctx, tx)
	if err != nil {
		return err
	}
	newBalance := fund.CurrentBalance.Sub(amount)
	if err := writeFundBalance(ctx, tx, newBalance.String(), fund.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fund delete: %w", err)
	}

	slog.InfoContext(ctx, "Fund addition removed", "id", id, "amount", amount, "balance", newBalance)
	return nil
}

func writeFundBalance(ctx context.Context, tx *sql.Tx, balance string, readVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE government_fund SET current_balance = ?, version = version + 1 WHERE id = 1 AND version = ?`,
		balance, readVersion)
	if err != nil {
		return fmt.Errorf("update government fund: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("government fund rows: %w", err)
	}
	if n == 0 {
		return core.ErrVersionConflict
	}
	return nil
}

func (r *Repository) ListFundHistory(ctx context.Context) ([]core.FundHistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount, source, description, receipt_url FROM fund_history ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query fund history: %w", err)
	}
	defer rows.Close()

	var out []core.FundHistoryRecord
	for rows.Next() {
		var rec core.FundHistoryRecord
		var date, amount string
		if err := rows.Scan(&rec.ID, &date, &amount, &rec.Source, &rec.Description, &rec.ReceiptURL); err != nil {
			return nil, fmt.Errorf("scan fund history: %w", err)
		}
		if rec.Date, err = parseTimestamp(date); err != nil {
			return nil, err
		}
		if rec.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount, type, category, senior_name, barangay, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Date.Format(timestampLayout), t.Amount.String(), string(t.Type),
		t.Category, t.SeniorName, t.Barangay, t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return t, nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount, type, category, senior_name, barangay, description, COALESCE(application_id, 0)
		 FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var date, amount, typ string
		if err := rows.Scan(&t.ID, &date, &amount, &typ, &t.Category, &t.SeniorName, &t.Barangay, &t.Description, &t.ApplicationID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = parseTimestamp(date); err != nil {
			return nil, err
		}
		if t.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		t.Type = core.TransactionType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}
