package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seniorcare/internal/core"
)

func TestApplicationWorkflow(t *testing.T) {
	repo := newTestRepo(t)
	seniors := NewSeniorService(repo, nil)
	apps := NewApplicationService(repo, nil)
	fund := NewFundService(repo)
	ctx := context.Background()

	senior, err := seniors.Register(ctx, core.Senior{
		FirstName: "Lourdes",
		LastName:  "Reyes",
		Birthdate: birthdateForAge(91),
		Barangay:  "San Isidro",
	})
	require.NoError(t, err)

	_, err = fund.AddFund(ctx, core.FundHistoryRecord{
		Date: time.Now(), Amount: d(t, "100000"), Source: "City treasury",
	})
	require.NoError(t, err)

	benefit, err := repo.GetBenefit(ctx, 1)
	require.NoError(t, err)

	app, err := apps.Submit(ctx, senior.ID, benefit.ID)
	require.NoError(t, err)

	lookup, err := repo.CategoryLookup(ctx)
	require.NoError(t, err)
	statuses, err := repo.StatusLookup(ctx)
	require.NoError(t, err)
	require.Equal(t, lookup[core.CategoryNonagenarian], app.CategoryID)
	require.Equal(t, statuses[core.StatusPending], app.StatusID)

	require.NoError(t, apps.Approve(ctx, app.ID))

	tx, err := apps.Release(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, core.TransactionReleased, tx.Type)
	require.True(t, tx.Amount.Equal(benefit.Amount))
	require.Equal(t, string(core.CategoryNonagenarian), tx.Category)
	require.Equal(t, "Lourdes Reyes", tx.SeniorName)

	released, err := repo.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, statuses[core.StatusReleased], released.StatusID)

	ov, err := fund.Overview(ctx)
	require.NoError(t, err)
	require.True(t, ov.AvailableBalance.Equal(d(t, "100000").Sub(benefit.Amount)))
	// Releases never touch the history ledger, only the available balance.
	require.True(t, ov.TotalFund.Equal(d(t, "100000")))
}

func TestSubmitUnknownSeniorOrBenefit(t *testing.T) {
	repo := newTestRepo(t)
	seniors := NewSeniorService(repo, nil)
	apps := NewApplicationService(repo, nil)
	ctx := context.Background()

	_, err := apps.Submit(ctx, 999, 1)
	require.ErrorIs(t, err, core.ErrNotFound)

	senior, err := seniors.Register(ctx, core.Senior{
		FirstName: "Lourdes",
		LastName:  "Reyes",
		Birthdate: birthdateForAge(70),
		Barangay:  "San Isidro",
	})
	require.NoError(t, err)

	_, err = apps.Submit(ctx, senior.ID, 999)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRejectAndListBySenior(t *testing.T) {
	repo := newTestRepo(t)
	seniors := NewSeniorService(repo, nil)
	apps := NewApplicationService(repo, nil)
	ctx := context.Background()

	senior, err := seniors.Register(ctx, core.Senior{
		FirstName: "Benigno",
		LastName:  "Cruz",
		Birthdate: birthdateForAge(75),
		Barangay:  "Poblacion",
	})
	require.NoError(t, err)

	first, err := apps.Submit(ctx, senior.ID, 1)
	require.NoError(t, err)
	_, err = apps.Submit(ctx, senior.ID, 2)
	require.NoError(t, err)

	require.NoError(t, apps.Reject(ctx, first.ID))

	statuses, err := repo.StatusLookup(ctx)
	require.NoError(t, err)
	got, err := repo.GetApplication(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, statuses[core.StatusRejected], got.StatusID)

	list, err := apps.BySenior(ctx, senior.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.ErrorIs(t, apps.Approve(ctx, 999), core.ErrNotFound)
}
