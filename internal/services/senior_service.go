package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seniorcare/internal/amqp"
	"seniorcare/internal/core"
	"seniorcare/internal/storage"
)

// SeniorService manages beneficiary registration and keeps application
// categories consistent with a senior's current age and PWD status.
type SeniorService struct {
	storage *storage.Repository
	broker  *amqp.Client
}

func NewSeniorService(storage *storage.Repository, broker *amqp.Client) *SeniorService {
	return &SeniorService{storage: storage, broker: broker}
}

func (s *SeniorService) Register(ctx context.Context, senior core.Senior) (core.Senior, error) {
	if err := senior.Validate(); err != nil {
		return core.Senior{}, err
	}
	return s.storage.CreateSenior(ctx, senior)
}

func (s *SeniorService) Get(ctx context.Context, id int64) (core.Senior, error) {
	return s.storage.GetSenior(ctx, id)
}

func (s *SeniorService) List(ctx context.Context) ([]core.Senior, error) {
	return s.storage.ListSeniors(ctx)
}

func (s *SeniorService) Delete(ctx context.Context, id int64) error {
	return s.storage.DeleteSenior(ctx, id)
}

// Update persists the senior's fields and runs category reconciliation.
// The stored row is read and the rules evaluated inside the same storage
// transaction as the write, so a concurrent update cannot slip between the
// snapshot and the reassignment. A missing lookup category aborts the
// reassignment but still persists the senior's non-category fields; the
// configuration error is returned to the caller.
func (s *SeniorService) Update(ctx context.Context, senior core.Senior) (core.Senior, error) {
	if err := senior.Validate(); err != nil {
		return core.Senior{}, err
	}

	// The lookup table is seeded by migration and never written at runtime,
	// so loading it outside the transaction is safe.
	lookup, err := s.storage.CategoryLookup(ctx)
	if err != nil {
		return core.Senior{}, fmt.Errorf("load category lookup: %w", err)
	}

	now := time.Now()
	newSnap := senior.Snapshot(now)
	var oldSnap core.Snapshot

	updated, change, err := s.storage.UpdateSenior(ctx, senior, func(current core.Senior) (*core.CategoryChange, error) {
		oldSnap = current.Snapshot(now)
		return core.NewReconciler(lookup).ChangeFor(oldSnap, newSnap)
	})
	if err != nil {
		return core.Senior{}, err
	}

	if change != nil {
		s.publishCategoryChanged(ctx, updated, oldSnap, change)
	}
	return updated, nil
}

func (s *SeniorService) publishCategoryChanged(ctx context.Context, senior core.Senior, old core.Snapshot, change *core.CategoryChange) {
	if s.broker == nil {
		slog.WarnContext(ctx, "Broker not available, skipping category event", "senior_id", senior.ID)
		return
	}
	msg := &amqp.CategoryChangedMessage{
		SeniorID:    senior.ID,
		SeniorName:  senior.FullName(),
		OldCategory: string(core.InitialCategory(old)),
		NewCategory: string(change.Category),
		Rule:        change.Rule,
		Timestamp:   time.Now(),
	}
	if err := s.broker.PublishCategoryChanged(ctx, msg); err != nil {
		// The reassignment is already committed; the event is best-effort.
		slog.ErrorContext(ctx, "Failed to publish category event",
			"senior_id", senior.ID, "error", err)
	}
}
