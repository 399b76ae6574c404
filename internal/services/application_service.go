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

// ApplicationService drives the benefit application workflow:
// submit -> approve/reject -> release.
type ApplicationService struct {
	storage *storage.Repository
	broker  *amqp.Client
}

func NewApplicationService(storage *storage.Repository, broker *amqp.Client) *ApplicationService {
	return &ApplicationService{storage: storage, broker: broker}
}

// Submit creates a pending application. The category is resolved from the
// senior's current age and PWD status, never taken from the request.
func (s *ApplicationService) Submit(ctx context.Context, seniorID, benefitID int64) (core.Application, error) {
	senior, err := s.storage.GetSenior(ctx, seniorID)
	if err != nil {
		return core.Application{}, err
	}
	if _, err := s.storage.GetBenefit(ctx, benefitID); err != nil {
		return core.Application{}, err
	}

	lookup, err := s.storage.CategoryLookup(ctx)
	if err != nil {
		return core.Application{}, fmt.Errorf("load category lookup: %w", err)
	}
	statuses, err := s.storage.StatusLookup(ctx)
	if err != nil {
		return core.Application{}, fmt.Errorf("load status lookup: %w", err)
	}

	category := core.InitialCategory(senior.Snapshot(time.Now()))
	categoryID, ok := lookup[category]
	if !ok {
		return core.Application{}, fmt.Errorf("%w: %q", core.ErrCategoryMissing, category)
	}
	statusID, ok := statuses[core.StatusPending]
	if !ok {
		return core.Application{}, fmt.Errorf("%w: status %q", core.ErrCategoryMissing, core.StatusPending)
	}

	return s.storage.CreateApplication(ctx, core.Application{
		SeniorID:   seniorID,
		BenefitID:  benefitID,
		StatusID:   statusID,
		CategoryID: categoryID,
	})
}

func (s *ApplicationService) Approve(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, core.StatusApproved)
}

func (s *ApplicationService) Reject(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, core.StatusRejected)
}

func (s *ApplicationService) setStatus(ctx context.Context, id int64, status string) error {
	statuses, err := s.storage.StatusLookup(ctx)
	if err != nil {
		return fmt.Errorf("load status lookup: %w", err)
	}
	statusID, ok := statuses[status]
	if !ok {
		return fmt.Errorf("%w: status %q", core.ErrCategoryMissing, status)
	}
	return s.storage.UpdateApplicationStatus(ctx, id, statusID)
}

// Release marks the application released and books the disbursement as a
// released transaction against the fund, atomically. The broker event goes
// out after commit and is best-effort.
func (s *ApplicationService) Release(ctx context.Context, id int64) (core.Transaction, error) {
	app, err := s.storage.GetApplication(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	senior, err := s.storage.GetSenior(ctx, app.SeniorID)
	if err != nil {
		return core.Transaction{}, err
	}
	benefit, err := s.storage.GetBenefit(ctx, app.BenefitID)
	if err != nil {
		return core.Transaction{}, err
	}

	lookup, err := s.storage.CategoryLookup(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load category lookup: %w", err)
	}
	statuses, err := s.storage.StatusLookup(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load status lookup: %w", err)
	}
	releasedID, ok := statuses[core.StatusReleased]
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: status %q", core.ErrCategoryMissing, core.StatusReleased)
	}

	tx, err := s.storage.ReleaseApplication(ctx, id, releasedID, core.Transaction{
		Date:        time.Now(),
		Amount:      benefit.Amount,
		Type:        core.TransactionReleased,
		Category:    categoryName(lookup, app.CategoryID),
		SeniorName:  senior.FullName(),
		Barangay:    senior.Barangay,
		Description: benefit.Name,
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishBenefitReleased(ctx, tx, senior)
	return tx, nil
}

func (s *ApplicationService) List(ctx context.Context) ([]core.Application, error) {
	return s.storage.ListApplications(ctx)
}

func (s *ApplicationService) BySenior(ctx context.Context, seniorID int64) ([]core.Application, error) {
	return s.storage.ApplicationsBySenior(ctx, seniorID)
}

func (s *ApplicationService) publishBenefitReleased(ctx context.Context, tx core.Transaction, senior core.Senior) {
	if s.broker == nil {
		slog.WarnContext(ctx, "Broker not available, skipping release event", "application_id", tx.ApplicationID)
		return
	}
	msg := &amqp.BenefitReleasedMessage{
		ApplicationID: tx.ApplicationID,
		SeniorID:      senior.ID,
		SeniorName:    senior.FullName(),
		Category:      tx.Category,
		Amount:        tx.Amount.String(),
		Timestamp:     time.Now(),
	}
	if err := s.broker.PublishBenefitReleased(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish release event",
			"application_id", tx.ApplicationID, "error", err)
	}
}

func categoryName(lookup core.CategoryLookup, id int64) string {
	for name, lid := range lookup {
		if lid == id {
			return string(name)
		}
	}
	return ""
}
