package cron

import (
	"context"
	"time"

	"github.com/famquest/backend/internal/domain"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/xcontext"
)

// DrawingSweepCronJob drives the drawing lifecycle forward: announced
// drawings whose window has opened become active, and active drawings whose
// window has closed are drawn (or cancelled when undersubscribed). Every
// drawing is handled in its own transaction, so one failure does not block
// the sweep.
type DrawingSweepCronJob struct {
	drawingRepo   repository.DrawingRepository
	drawingDomain domain.DrawingDomain
}

func NewDrawingSweepCronJob(
	drawingRepo repository.DrawingRepository,
	drawingDomain domain.DrawingDomain,
) *DrawingSweepCronJob {
	return &DrawingSweepCronJob{
		drawingRepo:   drawingRepo,
		drawingDomain: drawingDomain,
	}
}

func (job *DrawingSweepCronJob) Do(ctx context.Context) {
	now := time.Now()

	started, err := job.drawingRepo.GetStartedAnnounced(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get started announced drawings: %v", err)
		return
	}

	for _, drawing := range started {
		if err := job.drawingRepo.Activate(ctx, drawing.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot activate drawing %d: %v", drawing.ID, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Activated drawing %d (%s)", drawing.ID, drawing.Name)
	}

	expired, err := job.drawingRepo.GetExpiredActive(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get expired drawings: %v", err)
		return
	}

	for _, drawing := range expired {
		resp, err := job.drawingDomain.ExecuteDraw(ctx, drawing.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot draw drawing %d: %v", drawing.ID, err)
			continue
		}

		if resp.Cancelled {
			xcontext.Logger(ctx).Infof("Cancelled undersubscribed drawing %d (%s)",
				drawing.ID, drawing.Name)
		} else {
			xcontext.Logger(ctx).Infof("Drew %d winners of drawing %d (%s)",
				len(resp.Winners), drawing.ID, drawing.Name)
		}
	}
}

func (job *DrawingSweepCronJob) RunNow() bool {
	return true
}

func (job *DrawingSweepCronJob) Next() time.Time {
	return time.Now().Add(time.Minute)
}
