package notification

import (
	"context"

	"github.com/famquest/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers one event to one user. Deliveries are fire-and-forget
// from the workflow's point of view: a failed notification never rolls back
// the state change that produced it.
type Notifier interface {
	Notify(ctx context.Context, ev *Event) error
}

// LogNotifier is the default collaborator when no chat transport is plugged
// in. It only writes the event to the log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, ev *Event) error {
	xcontext.Logger(ctx).Infof("notify user %d: %s (%s)", ev.UserID, ev.Type, ev.ID)
	return nil
}

// Broadcast fans one event type out to many users. Failures are logged per
// user and do not stop the remaining deliveries.
func Broadcast(ctx context.Context, notifier Notifier, userIDs []int64, build func(userID int64) *Event) {
	eg := &errgroup.Group{}
	eg.SetLimit(8)

	for _, userID := range userIDs {
		userID := userID
		eg.Go(func() error {
			if err := notifier.Notify(ctx, build(userID)); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot notify user %d: %v", userID, err)
			}

			return nil
		})
	}

	eg.Wait()
}
