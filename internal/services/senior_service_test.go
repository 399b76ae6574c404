package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seniorcare/internal/core"
)

// birthdateForAge returns a birthdate making the senior exactly age years
// old today.
func birthdateForAge(age int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year()-age, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func TestRegisterAndGetSenior(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewSeniorService(repo, nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, core.Senior{
		FirstName: "Lourdes",
		LastName:  "Reyes",
		Birthdate: birthdateForAge(72),
		Barangay:  "San Isidro",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, 72, created.Age)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Lourdes Reyes", got.FullName())
}

func TestRegisterRejectsInvalid(t *testing.T) {
	svc := NewSeniorService(newTestRepo(t), nil)

	_, err := svc.Register(context.Background(), core.Senior{
		LastName:  "Reyes",
		Birthdate: birthdateForAge(72),
		Barangay:  "San Isidro",
	})
	require.ErrorIs(t, err, core.ErrEmptyFirstName)
}

func TestUpdateReassignsApplicationsOnTierCrossing(t *testing.T) {
	repo := newTestRepo(t)
	seniors := NewSeniorService(repo, nil)
	apps := NewApplicationService(repo, nil)
	ctx := context.Background()

	created, err := seniors.Register(ctx, core.Senior{
		FirstName: "Benigno",
		LastName:  "Cruz",
		Birthdate: birthdateForAge(79),
		Barangay:  "Poblacion",
	})
	require.NoError(t, err)

	app, err := apps.Submit(ctx, created.ID, 1)
	require.NoError(t, err)

	lookup, err := repo.CategoryLookup(ctx)
	require.NoError(t, err)
	require.Equal(t, lookup[core.CategoryRegular], app.CategoryID)

	// A corrected birthdate moves the senior into the 80-89 tier.
	created.Birthdate = birthdateForAge(81)
	_, err = seniors.Update(ctx, created)
	require.NoError(t, err)

	got, err := repo.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, lookup[core.CategoryOctogenarian], got.CategoryID)
}

func TestUpdateSameTierLeavesApplicationsAlone(t *testing.T) {
	repo := newTestRepo(t)
	seniors := NewSeniorService(repo, nil)
	apps := NewApplicationService(repo, nil)
	ctx := context.Background()

	created, err := seniors.Register(ctx, core.Senior{
		FirstName: "Benigno",
		LastName:  "Cruz",
		Birthdate: birthdateForAge(82),
		Barangay:  "Poblacion",
	})
	require.NoError(t, err)

	app, err := apps.Submit(ctx, created.ID, 1)
	require.NoError(t, err)

	created.Birthdate = birthdateForAge(85)
	created.Barangay = "San Roque"
	updated, err := seniors.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "San Roque", updated.Barangay)

	got, err := repo.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, app.CategoryID, got.CategoryID)
}

func TestUpdatePWDFlipWinsOverTier(t *testing.T) {
	repo := newTestRepo(t)
	seniors := NewSeniorService(repo, nil)
	apps := NewApplicationService(repo, nil)
	ctx := context.Background()

	created, err := seniors.Register(ctx, core.Senior{
		FirstName: "Aurora",
		LastName:  "Santos",
		Birthdate: birthdateForAge(79),
		Barangay:  "Poblacion",
	})
	require.NoError(t, err)

	app, err := apps.Submit(ctx, created.ID, 1)
	require.NoError(t, err)

	// PWD flip and tier crossing in the same update: PWD takes precedence.
	created.Birthdate = birthdateForAge(81)
	created.PWD = true
	_, err = seniors.Update(ctx, created)
	require.NoError(t, err)

	lookup, err := repo.CategoryLookup(ctx)
	require.NoError(t, err)
	got, err := repo.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, lookup[core.CategorySpecial], got.CategoryID)
}

func TestDeleteSenior(t *testing.T) {
	svc := NewSeniorService(newTestRepo(t), nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, core.Senior{
		FirstName: "Lourdes",
		LastName:  "Reyes",
		Birthdate: birthdateForAge(72),
		Barangay:  "San Isidro",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID), core.ErrNotFound)
}
