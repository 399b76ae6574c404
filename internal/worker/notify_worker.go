package worker

import (
	"context"
	"fmt"
	"log/slog"

	"seniorcare/internal/amqp"
	"seniorcare/internal/storage"
)

// NotifyWorker turns broker events into notification rows for the staff
// dashboard.
type NotifyWorker struct {
	storage *storage.Repository
}

func NewNotifyWorker(storage *storage.Repository) *NotifyWorker {
	return &NotifyWorker{storage: storage}
}

// HandleBenefitReleased records a notification for a disbursed benefit.
func (w *NotifyWorker) HandleBenefitReleased(ctx context.Context, body []byte) error {
	msg, err := amqp.BenefitReleasedFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping undecodable release event", "error", err)
		return amqp.ErrBadPayload
	}

	_, err = w.storage.CreateNotification(ctx, storage.Notification{
		Kind:    "benefit.released",
		Subject: fmt.Sprintf("Benefit released to %s", msg.SeniorName),
		Body: fmt.Sprintf("Application %d released %s under %s",
			msg.ApplicationID, msg.Amount, msg.Category),
	})
	if err != nil {
		return fmt.Errorf("record release notification: %w", err)
	}

	slog.InfoContext(ctx, "Release notification recorded",
		"application_id", msg.ApplicationID, "senior_id", msg.SeniorID)
	return nil
}

// HandleCategoryChanged records a notification for a category
// reassignment.
func (w *NotifyWorker) HandleCategoryChanged(ctx context.Context, body []byte) error {
	msg, err := amqp.CategoryChangedFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping undecodable category event", "error", err)
		return amqp.ErrBadPayload
	}

	_, err = w.storage.CreateNotification(ctx, storage.Notification{
		Kind:    "category.changed",
		Subject: fmt.Sprintf("Category updated for %s", msg.SeniorName),
		Body: fmt.Sprintf("Senior %d moved from %q to %q (%s rule)",
			msg.SeniorID, msg.OldCategory, msg.NewCategory, msg.Rule),
	})
	if err != nil {
		return fmt.Errorf("record category notification: %w", err)
	}

	slog.InfoContext(ctx, "Category notification recorded",
		"senior_id", msg.SeniorID, "new_category", msg.NewCategory)
	return nil
}
