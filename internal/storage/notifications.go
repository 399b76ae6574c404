package storage

import (
	"context"
	"fmt"
	"time"
)

// Notification is a queued message for the staff dashboard, written by the
// notify worker when it consumes broker events.
type Notification struct {
	ID        int64
	Kind      string
	Subject   string
	Body      string
	Read      bool
	CreatedAt time.Time
}

func (r *Repository) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (kind, subject, body, read, created_at) VALUES (?, ?, ?, 0, ?)`,
		n.Kind, n.Subject, n.Body, now.Format(timestampLayout))
	if err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return Notification{}, fmt.Errorf("notification id: %w", err)
	}
	n.CreatedAt = now
	return n, nil
}

func (r *Repository) ListNotifications(ctx context.Context, limit int) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, subject, body, read, created_at FROM notifications ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var read int
		var createdAt string
		if err := rows.Scan(&n.ID, &n.Kind, &n.Subject, &n.Body, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if n.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}
