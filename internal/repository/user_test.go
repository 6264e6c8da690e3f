package repository_test

import (
	"testing"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_IncreaseBalance(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	testutil.SampleUser(ctx, 1, 100)

	require.NoError(t, userRepo.IncreaseBalance(ctx, 1, 25))
	require.NoError(t, userRepo.IncreaseBalance(ctx, 1, -50))

	user, err := userRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(75), user.Balance)

	// Unknown user.
	err = userRepo.IncreaseBalance(ctx, 999, 10)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ResetDailyCounters(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	testutil.SampleUser(ctx, 1, 0)
	err := userRepo.UpdateDailyCounters(
		ctx, 1, 5, entity.Dict[string, int]{"contracts": 5}, "2020-01-01")
	require.NoError(t, err)

	testutil.SampleUser(ctx, 2, 0)
	err = userRepo.UpdateDailyCounters(
		ctx, 2, 2, entity.Dict[string, int]{"contracts": 2}, "2024-06-01")
	require.NoError(t, err)

	n, err := userRepo.ResetDailyCounters(ctx, "2024-06-01")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	user, err := userRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0, user.DailyTotal)
	require.Equal(t, "2024-06-01", user.LastTaskDay)

	user, err = userRepo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, user.DailyTotal)
}
