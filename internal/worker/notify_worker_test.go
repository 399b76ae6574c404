package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seniorcare/internal/amqp"
	"seniorcare/internal/storage"
)

func newWorker(t *testing.T) (*NotifyWorker, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return NewNotifyWorker(repo), repo
}

func TestHandleBenefitReleased(t *testing.T) {
	w, repo := newWorker(t)
	ctx := context.Background()

	msg := &amqp.BenefitReleasedMessage{
		ApplicationID: 7,
		SeniorID:      3,
		SeniorName:    "Maria Reyes",
		Category:      "Octogenarian (80-89)",
		Amount:        "3000",
		Timestamp:     time.Now(),
	}
	body, err := msg.ToJSON()
	require.NoError(t, err)

	require.NoError(t, w.HandleBenefitReleased(ctx, body))

	list, err := repo.ListNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "benefit.released", list[0].Kind)
	require.Contains(t, list[0].Subject, "Maria Reyes")
}

func TestHandleCategoryChanged(t *testing.T) {
	w, repo := newWorker(t)
	ctx := context.Background()

	msg := &amqp.CategoryChangedMessage{
		SeniorID:    3,
		SeniorName:  "Pedro Santos",
		OldCategory: "Regular senior citizens",
		NewCategory: "Octogenarian (80-89)",
		Rule:        "age_tier",
		Timestamp:   time.Now(),
	}
	body, err := msg.ToJSON()
	require.NoError(t, err)

	require.NoError(t, w.HandleCategoryChanged(ctx, body))

	list, err := repo.ListNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "category.changed", list[0].Kind)
}

func TestBadPayloadIsNotRequeued(t *testing.T) {
	w, _ := newWorker(t)
	err := w.HandleBenefitReleased(context.Background(), []byte("not json"))
	require.ErrorIs(t, err, amqp.ErrBadPayload)

	err = w.HandleCategoryChanged(context.Background(), []byte("{}"))
	require.ErrorIs(t, err, amqp.ErrBadPayload)
}
