package cron

import (
	"testing"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/dateutil"
	"github.com/famquest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestDailyResetCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	stale := testutil.SampleUser(ctx, 1, 0)
	err := userRepo.UpdateDailyCounters(
		ctx, stale.ID, 7, entity.Dict[string, int]{"contracts": 7}, "2020-01-01")
	require.NoError(t, err)

	fresh := testutil.SampleUser(ctx, 2, 0)
	err = userRepo.UpdateDailyCounters(
		ctx, fresh.ID, 3, entity.Dict[string, int]{"contracts": 3}, dateutil.Today())
	require.NoError(t, err)

	NewDailyResetCronJob(userRepo).Do(ctx)

	got, err := userRepo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.DailyTotal)
	require.Empty(t, got.DailyByType)
	require.Equal(t, dateutil.Today(), got.LastTaskDay)

	// Counters already belonging to today survive the reset.
	got, err = userRepo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.DailyTotal)
	require.Equal(t, 3, got.DailyByType["contracts"])

	// Running twice is harmless.
	NewDailyResetCronJob(userRepo).Do(ctx)

	got, err = userRepo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.DailyTotal)
}
