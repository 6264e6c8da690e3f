package domain

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/famquest/backend/internal/domain/notification"
	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/model"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/testutil"
	"github.com/famquest/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestDrawingDomain() *drawingDomain {
	d := NewDrawingDomain(
		repository.NewDrawingRepository(),
		repository.NewUserRepository(),
		repository.NewAdminOperationRepository(),
		notification.NewLogNotifier(),
	)
	d.intn = rand.New(rand.NewSource(1)).Intn
	return d
}

func expireDrawing(t *testing.T, ctx context.Context, id int64) {
	err := xcontext.DB(ctx).
		Model(&entity.Drawing{}).
		Where("id=?", id).
		Update("end_time", time.Now().Add(-2*time.Hour)).Error
	require.NoError(t, err)
}

func Test_drawingDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminID)

	_, err := drawingDomain.Create(xcontext.WithRequestUserID(ctx, 1),
		&model.CreateDrawingRequest{Name: "n"})
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	now := time.Now()

	// End before start.
	_, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "bad", StartTime: now, EndTime: now.Add(-time.Hour), MinParticipants: 2,
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// Too low minimum.
	_, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "bad", StartTime: now, EndTime: now.Add(time.Hour), MinParticipants: 1,
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// Maximum not above minimum.
	_, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "bad", StartTime: now, EndTime: now.Add(time.Hour),
		MinParticipants: 5, MaxParticipants: 5,
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// No maximum means no drawing, not an unlimited one.
	_, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "bad", StartTime: now, EndTime: now.Add(time.Hour),
		MinParticipants: 5,
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// Unknown required badge.
	_, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "bad", StartTime: now, EndTime: now.Add(time.Hour),
		MinParticipants: 2, MaxParticipants: 100, RequiredBadges: []string{"nope"},
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// A drawing whose window already opened starts active; a future one is
	// only announced.
	resp, err := drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "open now", Prize: "crate",
		StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour),
		MinParticipants: 2, MaxParticipants: 100,
	})
	require.NoError(t, err)

	getResp, err := drawingDomain.Get(ctx, &model.GetDrawingRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawingActive), getResp.Drawing.Status)

	// Names are unique.
	_, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "open now", Prize: "crate",
		StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour),
		MinParticipants: 2, MaxParticipants: 100,
	})
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	resp, err = drawingDomain.Create(adminCtx, &model.CreateDrawingRequest{
		Name: "open later", Prize: "crate",
		StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour),
		MinParticipants: 2, MaxParticipants: 100,
	})
	require.NoError(t, err)

	getResp, err = drawingDomain.Get(ctx, &model.GetDrawingRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawingAnnounced), getResp.Drawing.Status)
}

func Test_drawingDomain_Join(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()

	drawing := testutil.SampleActiveDrawing(ctx, entity.Drawing{
		Name: "weekly", EntryCost: 10, MaxParticipants: 2,
	})

	testutil.SampleUser(ctx, 1, 25)
	testutil.SampleUser(ctx, 2, 10)
	testutil.SampleUser(ctx, 3, 100)

	// Tickets are issued in join order, gap-free from 1.
	resp, err := drawingDomain.Join(xcontext.WithRequestUserID(ctx, 1),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TicketNumber)

	resp, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 2),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.NoError(t, err)
	require.Equal(t, 2, resp.TicketNumber)

	// The entry cost was charged.
	user, err := repository.NewUserRepository().GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(15), user.Balance)

	// Double join.
	_, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 1),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.Equal(t, errorx.AlreadyJoined, err.(errorx.Error).Code)

	// Full.
	_, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 3),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.Equal(t, errorx.Full, err.(errorx.Error).Code)
}

func Test_drawingDomain_Join_eligibility(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()

	drawing := testutil.SampleActiveDrawing(ctx, entity.Drawing{
		Name: "vip", EntryCost: 50, RequiredBadges: entity.Array[string]{"star"},
	})

	// A first-time user has no badge and no points.
	_, err := drawingDomain.Join(xcontext.WithRequestUserID(ctx, 1),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.Equal(t, errorx.MissingBadge, err.(errorx.Error).Code)

	// With the badge but a short balance.
	user := testutil.SampleUser(ctx, 2, 20)
	require.NoError(t, repository.NewUserRepository().UpdateBadges(ctx, user.ID, []string{"star"}))
	_, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 2),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.Equal(t, errorx.InsufficientPoints, err.(errorx.Error).Code)

	// Banned.
	banned := testutil.SampleUser(ctx, 3, 100)
	require.NoError(t, repository.NewUserRepository().SetBanned(ctx, banned.ID, true, "spam"))
	_, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 3),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.Equal(t, errorx.Banned, err.(errorx.Error).Code)

	// Not active.
	announced := testutil.SampleActiveDrawing(ctx, entity.Drawing{
		Name: "future", Status: entity.DrawingAnnounced,
	})
	_, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 1),
		&model.JoinDrawingRequest{DrawingID: announced.ID})
	require.Equal(t, errorx.NotActive, err.(errorx.Error).Code)
}

func Test_drawingDomain_ExecuteDraw(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()

	drawing := testutil.SampleActiveDrawing(ctx, entity.Drawing{
		Name: "big one", MinParticipants: 3,
	})

	for userID := int64(1); userID <= 12; userID++ {
		testutil.SampleUser(ctx, userID, 0)
		_, err := drawingDomain.Join(xcontext.WithRequestUserID(ctx, userID),
			&model.JoinDrawingRequest{DrawingID: drawing.ID})
		require.NoError(t, err)
	}

	// Too early.
	_, err := drawingDomain.ExecuteDraw(ctx, drawing.ID)
	require.Equal(t, errorx.Unavailable, err.(errorx.Error).Code)

	expireDrawing(t, ctx, drawing.ID)

	// 12 participants give 12/10+1 = 2 winners.
	resp, err := drawingDomain.ExecuteDraw(ctx, drawing.ID)
	require.NoError(t, err)
	require.False(t, resp.Cancelled)
	require.Len(t, resp.Winners, 2)

	seen := map[int64]bool{}
	for place, userID := range resp.Winners {
		require.GreaterOrEqual(t, place, 1)
		require.LessOrEqual(t, place, 2)
		require.False(t, seen[userID])
		seen[userID] = true

		// Winner stats and participation places are recorded.
		user, err := repository.NewUserRepository().GetByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, 1, user.DrawingsWon)
		require.False(t, user.LastDrawingWin.IsZero())
	}

	wins, err := drawingDomain.GetMyWins(
		xcontext.WithRequestUserID(ctx, resp.Winners[1]), &model.GetMyWinsRequest{})
	require.NoError(t, err)
	require.Len(t, wins.Wins, 1)
	require.Equal(t, 1, wins.Wins[0].WonPlace)

	// Drawing is finished with its end time moved up to the draw moment, and
	// a repeated draw returns the same winners.
	getResp, err := drawingDomain.Get(ctx, &model.GetDrawingRequest{ID: drawing.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawingFinished), getResp.Drawing.Status)

	finished, err := repository.NewDrawingRepository().GetByID(ctx, drawing.ID)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), finished.EndTime, time.Minute)

	again, err := drawingDomain.ExecuteDraw(ctx, drawing.ID)
	require.NoError(t, err)
	require.Equal(t, resp.Winners, again.Winners)
}

func Test_drawingDomain_ExecuteDraw_undersubscribed(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()

	drawing := testutil.SampleActiveDrawing(ctx, entity.Drawing{
		Name: "lonely", MinParticipants: 5, EntryCost: 10,
	})

	testutil.SampleUser(ctx, 1, 10)
	_, err := drawingDomain.Join(xcontext.WithRequestUserID(ctx, 1),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.NoError(t, err)

	expireDrawing(t, ctx, drawing.ID)

	resp, err := drawingDomain.ExecuteDraw(ctx, drawing.ID)
	require.NoError(t, err)
	require.True(t, resp.Cancelled)

	// The entry cost stays spent.
	user, err := repository.NewUserRepository().GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), user.Balance)

	getResp, err := drawingDomain.Get(ctx, &model.GetDrawingRequest{ID: drawing.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawingCancelled), getResp.Drawing.Status)
}

func Test_drawingDomain_winnerCount(t *testing.T) {
	tests := []struct {
		participants int
		want         int
	}{
		{1, 1}, {9, 1}, {10, 2}, {39, 4}, {40, 5}, {100, 5},
	}

	for _, tt := range tests {
		k := tt.participants/10 + 1
		if k > maxWinners {
			k = maxWinners
		}
		require.Equal(t, tt.want, k, "participants=%d", tt.participants)
	}
}

func Test_drawingDomain_Get_canParticipate(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()

	drawing := testutil.SampleActiveDrawing(ctx, entity.Drawing{Name: "free entry"})

	// Anonymous requests get no eligibility verdict.
	resp, err := drawingDomain.Get(ctx, &model.GetDrawingRequest{ID: drawing.ID})
	require.NoError(t, err)
	require.False(t, resp.CanParticipate)

	// A first-time user can join a free drawing.
	resp, err = drawingDomain.Get(xcontext.WithRequestUserID(ctx, 1),
		&model.GetDrawingRequest{ID: drawing.ID})
	require.NoError(t, err)
	require.True(t, resp.CanParticipate)

	_, err = drawingDomain.Join(xcontext.WithRequestUserID(ctx, 1),
		&model.JoinDrawingRequest{DrawingID: drawing.ID})
	require.NoError(t, err)

	resp, err = drawingDomain.Get(xcontext.WithRequestUserID(ctx, 1),
		&model.GetDrawingRequest{ID: drawing.ID})
	require.NoError(t, err)
	require.False(t, resp.CanParticipate)
}

func Test_drawingDomain_GetActiveList(t *testing.T) {
	ctx := testutil.MockContext()
	drawingDomain := newTestDrawingDomain()

	testutil.SampleActiveDrawing(ctx, entity.Drawing{Name: "a"})
	testutil.SampleActiveDrawing(ctx, entity.Drawing{Name: "b"})
	testutil.SampleActiveDrawing(ctx, entity.Drawing{
		Name: "announced", Status: entity.DrawingAnnounced,
	})

	resp, err := drawingDomain.GetActiveList(ctx, &model.GetActiveDrawingsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Drawings, 2)
}
