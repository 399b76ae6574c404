package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"seniorcare/internal/core"
)

// Timestamps are stored at full nanosecond precision so a value read back
// compares equal to the one the caller was handed at write time.
const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// Repository is the sqlite-backed store for every aggregate. Read-modify-
// write sequences run inside a single transaction; the government_fund row
// is updated with an optimistic version check.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Ping reports whether the database is reachable, used by readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CategoryLookup loads the senior_categories table as a name-to-id map.
func (r *Repository) CategoryLookup(ctx context.Context) (core.CategoryLookup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM senior_categories`)
	if err != nil {
		return nil, fmt.Errorf("query senior categories: %w", err)
	}
	defer rows.Close()

	lookup := core.CategoryLookup{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan senior category: %w", err)
		}
		lookup[core.Category(name)] = id
	}
	return lookup, rows.Err()
}

// StatusLookup loads the application_statuses table as a name-to-id map.
func (r *Repository) StatusLookup(ctx context.Context) (core.StatusLookup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM application_statuses`)
	if err != nil {
		return nil, fmt.Errorf("query application statuses: %w", err)
	}
	defer rows.Close()

	lookup := core.StatusLookup{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan application status: %w", err)
		}
		lookup[name] = id
	}
	return lookup, rows.Err()
}

func (r *Repository) GetBenefit(ctx context.Context, id int64) (core.Benefit, error) {
	var b core.Benefit
	var amount string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, amount, description FROM benefits WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &amount, &b.Description)
	if err == sql.ErrNoRows {
		return core.Benefit{}, fmt.Errorf("benefit %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Benefit{}, fmt.Errorf("get benefit: %w", err)
	}
	b.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Benefit{}, fmt.Errorf("parse benefit amount %q: %w", amount, err)
	}
	return b, nil
}

func (r *Repository) ListBenefits(ctx context.Context) ([]core.Benefit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, amount, description FROM benefits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query benefits: %w", err)
	}
	defer rows.Close()

	var out []core.Benefit
	for rows.Next() {
		var b core.Benefit
		var amount string
		if err := rows.Scan(&b.ID, &b.Name, &amount, &b.Description); err != nil {
			return nil, fmt.Errorf("scan benefit: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse benefit amount %q: %w", amount, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func parseDecimal(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return v, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	// Default column values come back in sqlite's datetime() format.
	return time.Parse("2006-01-02 15:04:05", s)
}
