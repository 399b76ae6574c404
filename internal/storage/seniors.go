package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"seniorcare/internal/core"
)

func (r *Repository) CreateSenior(ctx context.Context, s core.Senior) (core.Senior, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO seniors (first_name, last_name, birthdate, barangay, pwd, low_income, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.FirstName, s.LastName, s.Birthdate.Format(dateLayout), s.Barangay,
		boolToInt(s.PWD), boolToInt(s.LowIncome),
		now.Format(timestampLayout), now.Format(timestampLayout))
	if err != nil {
		return core.Senior{}, fmt.Errorf("insert senior: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Senior{}, fmt.Errorf("senior insert id: %w", err)
	}
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Age = core.AgeAt(s.Birthdate, now)

	slog.InfoContext(ctx, "Senior registered", "id", id, "barangay", s.Barangay)
	return s, nil
}

func (r *Repository) GetSenior(ctx context.Context, id int64) (core.Senior, error) {
	return scanSenior(r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, birthdate, barangay, pwd, low_income, created_at, updated_at
		 FROM seniors WHERE id = ?`, id))
}

func (r *Repository) ListSeniors(ctx context.Context) ([]core.Senior, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, birthdate, barangay, pwd, low_income, created_at, updated_at
		 FROM seniors ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("query seniors: %w", err)
	}
	defer rows.Close()

	var out []core.Senior
	for rows.Next() {
		s, err := scanSenior(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteSenior(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seniors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete senior: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete senior rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("senior %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// UpdateSenior persists the senior's fields in one transaction. The stored
// row is re-read inside that transaction and handed to decide, so the
// reassignment decision is never based on a stale snapshot. When decide
// returns a change, every application of the senior is reassigned to the
// new category before commit. A decide error skips the reassignment but
// still persists the senior's fields; the error is surfaced after commit.
func (r *Repository) UpdateSenior(ctx context.Context, s core.Senior, decide func(current core.Senior) (*core.CategoryChange, error)) (core.Senior, *core.CategoryChange, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Senior{}, nil, fmt.Errorf("begin senior update: %w", err)
	}
	defer tx.Rollback()

	current, err := scanSenior(tx.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, birthdate, barangay, pwd, low_income, created_at, updated_at
		 FROM seniors WHERE id = ?`, s.ID))
	if err != nil {
		return core.Senior{}, nil, err
	}

	var change *core.CategoryChange
	var decideErr error
	if decide != nil {
		change, decideErr = decide(current)
		if decideErr != nil {
			change = nil
		}
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE seniors SET first_name = ?, last_name = ?, birthdate = ?, barangay = ?, pwd = ?, low_income = ?, updated_at = ?
		 WHERE id = ?`,
		s.FirstName, s.LastName, s.Birthdate.Format(dateLayout), s.Barangay,
		boolToInt(s.PWD), boolToInt(s.LowIncome), now.Format(timestampLayout), s.ID)
	if err != nil {
		return core.Senior{}, nil, fmt.Errorf("update senior: %w", err)
	}

	if change != nil {
		_, err := tx.ExecContext(ctx,
			`UPDATE applications SET category_id = ?, updated_at = ? WHERE senior_id = ?`,
			change.CategoryID, now.Format(timestampLayout), s.ID)
		if err != nil {
			return core.Senior{}, nil, fmt.Errorf("reassign applications: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Senior{}, nil, fmt.Errorf("commit senior update: %w", err)
	}

	if change != nil {
		slog.InfoContext(ctx, "Senior applications reassigned",
			"senior_id", s.ID, "category", change.Category, "rule", change.Rule)
	}

	s.CreatedAt = current.CreatedAt
	s.UpdatedAt = now
	s.Age = core.AgeAt(s.Birthdate, now)
	return s, change, decideErr
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSenior(row rowScanner) (core.Senior, error) {
	var s core.Senior
	var birthdate, createdAt, updatedAt string
	var pwd, lowIncome int
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &birthdate, &s.Barangay, &pwd, &lowIncome, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return core.Senior{}, fmt.Errorf("senior: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.Senior{}, fmt.Errorf("scan senior: %w", err)
	}
	if s.Birthdate, err = time.Parse(dateLayout, birthdate); err != nil {
		return core.Senior{}, fmt.Errorf("parse birthdate %q: %w", birthdate, err)
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return core.Senior{}, err
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return core.Senior{}, err
	}
	s.PWD = pwd != 0
	s.LowIncome = lowIncome != 0
	s.Age = core.AgeAt(s.Birthdate, time.Now())
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
