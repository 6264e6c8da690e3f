package cron

import (
	"context"
	"time"

	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/dateutil"
	"github.com/famquest/backend/pkg/xcontext"
)

// DailyResetCronJob zeroes the per-user daily submission counters at local
// midnight. Users whose counters already belong to the new day are left
// alone, so a reset that fires twice is harmless.
type DailyResetCronJob struct {
	userRepo repository.UserRepository
}

func NewDailyResetCronJob(userRepo repository.UserRepository) *DailyResetCronJob {
	return &DailyResetCronJob{userRepo: userRepo}
}

func (job *DailyResetCronJob) Do(ctx context.Context) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	n, err := job.userRepo.ResetDailyCounters(ctx, dateutil.Today())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset daily counters: %v", err)
		return
	}

	xcontext.WithCommitDBTransaction(ctx)
	xcontext.Logger(ctx).Infof("Reset daily counters of %d users", n)
}

func (job *DailyResetCronJob) RunNow() bool {
	return true
}

func (job *DailyResetCronJob) Next() time.Time {
	return dateutil.NextMidnight(time.Now())
}
