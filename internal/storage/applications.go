package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"seniorcare/internal/core"
)

func (r *Repository) CreateApplication(ctx context.Context, a core.Application) (core.Application, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (senior_id, benefit_id, status_id, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.SeniorID, a.BenefitID, a.StatusID, a.CategoryID,
		now.Format(timestampLayout), now.Format(timestampLayout))
	if err != nil {
		return core.Application{}, fmt.Errorf("insert application: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Application{}, fmt.Errorf("application insert id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now

	slog.InfoContext(ctx, "Application submitted", "id", id, "senior_id", a.SeniorID, "benefit_id", a.BenefitID)
	return a, nil
}

func (r *Repository) GetApplication(ctx context.Context, id int64) (core.Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx,
		`SELECT id, senior_id, benefit_id, status_id, category_id, created_at, updated_at
		 FROM applications WHERE id = ?`, id))
}

// ApplicationsBySenior returns the senior's applications newest first, so
// index 0 is the active application for category/benefit display.
func (r *Repository) ApplicationsBySenior(ctx context.Context, seniorID int64) ([]core.Application, error) {
	return r.queryApplications(ctx,
		`SELECT id, senior_id, benefit_id, status_id, category_id, created_at, updated_at
		 FROM applications WHERE senior_id = ? ORDER BY created_at DESC, id DESC`, seniorID)
}

func (r *Repository) ListApplications(ctx context.Context) ([]core.Application, error) {
	return r.queryApplications(ctx,
		`SELECT id, senior_id, benefit_id, status_id, category_id, created_at, updated_at
		 FROM applications ORDER BY created_at DESC, id DESC`)
}

func (r *Repository) queryApplications(ctx context.Context, query string, args ...any) ([]core.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var out []core.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateApplicationStatus(ctx context.Context, id, statusID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status_id = ?, updated_at = ? WHERE id = ?`,
		statusID, time.Now().UTC().Format(timestampLayout), id)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("application %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ReleaseApplication marks the application released and records the
// disbursement transaction in one atomic step.
func (r *Repository) ReleaseApplication(ctx context.Context, appID, releasedStatusID int64, t core.Transaction) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin release: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE applications SET status_id = ?, updated_at = ? WHERE id = ?`,
		releasedStatusID, now.Format(timestampLayout), appID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("mark application released: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("release rows: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, fmt.Errorf("application %d: %w", appID, core.ErrNotFound)
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (date, amount, type, category, senior_name, barangay, description, application_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.Format(timestampLayout), t.Amount.String(), string(t.Type),
		t.Category, t.SeniorName, t.Barangay, t.Description, appID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert release transaction: %w", err)
	}
	t.ID, err = ins.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("release transaction id: %w", err)
	}
	t.ApplicationID = appID

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit release: %w", err)
	}

	slog.InfoContext(ctx, "Benefit released", "application_id", appID, "amount", t.Amount)
	return t, nil
}

func scanApplication(row rowScanner) (core.Application, error) {
	var a core.Application
	var createdAt, updatedAt string
	err := row.Scan(&a.ID, &a.SeniorID, &a.BenefitID, &a.StatusID, &a.CategoryID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return core.Application{}, fmt.Errorf("application: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.Application{}, fmt.Errorf("scan application: %w", err)
	}
	if a.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return core.Application{}, err
	}
	if a.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return core.Application{}, err
	}
	return a, nil
}
