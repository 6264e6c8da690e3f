package domain

import (
	"testing"

	"github.com/famquest/backend/internal/domain/notification"
	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/model"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/testutil"
	"github.com/famquest/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestTaskDomain() (TaskDomain, LedgerDomain) {
	userRepo := repository.NewUserRepository()
	taskRepo := repository.NewTaskSubmissionRepository()
	adminOperationRepo := repository.NewAdminOperationRepository()

	return NewTaskDomain(taskRepo, userRepo, adminOperationRepo, notification.NewLogNotifier()),
		NewLedgerDomain(userRepo, adminOperationRepo)
}

func Test_taskDomain_Submit_and_Approve(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, ledgerDomain := newTestTaskDomain()

	userCtx := xcontext.WithRequestUserID(ctx, 1)
	submitResp, err := taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type:         "woodcutting",
		Count:        8,
		EvidencePath: "evidence/wood.png",
	})
	require.NoError(t, err)
	require.NotZero(t, submitResp.ID)

	// The submission starts pending and awards nothing yet.
	getResp, err := taskDomain.Get(userCtx, &model.GetTaskRequest{ID: submitResp.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.TaskPending), getResp.Task.Status)
	require.Equal(t, int64(5), getResp.Task.Points)

	balance, err := ledgerDomain.GetBalance(userCtx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), balance.Balance)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminID)
	_, err = taskDomain.Review(adminCtx, &model.ReviewTaskRequest{
		ID: submitResp.ID, Action: "approved",
	})
	require.NoError(t, err)

	// Award is points*count and is recorded in the audit trail.
	balance, err = ledgerDomain.GetBalance(userCtx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(40), balance.Balance)

	history, err := ledgerDomain.GetHistory(adminCtx, &model.GetPointHistoryRequest{UserID: 1})
	require.NoError(t, err)
	require.Len(t, history.Operations, 1)
	require.Equal(t, string(entity.OpApproveTask), history.Operations[0].Kind)
	require.Equal(t, int64(40), history.Operations[0].PointsDelta)

	// Reviewing again changes nothing.
	_, err = taskDomain.Review(adminCtx, &model.ReviewTaskRequest{
		ID: submitResp.ID, Action: "approved",
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyDecided, err.(errorx.Error).Code)

	balance, err = ledgerDomain.GetBalance(userCtx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(40), balance.Balance)
}

func Test_taskDomain_Submit_validation(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()
	userCtx := xcontext.WithRequestUserID(ctx, 1)

	// Anonymous.
	_, err := taskDomain.Submit(ctx, &model.SubmitTaskRequest{Type: "woodcutting", Count: 1})
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	// Unknown type.
	_, err = taskDomain.Submit(userCtx, &model.SubmitTaskRequest{Type: "nope", Count: 1})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// Count above the per-submission cap.
	_, err = taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type: "woodcutting", Count: 11, EvidencePath: "e.png",
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	// Missing evidence.
	_, err = taskDomain.Submit(userCtx, &model.SubmitTaskRequest{Type: "woodcutting", Count: 1})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_taskDomain_Submit_banned(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()

	user := testutil.SampleUser(ctx, 7, 0)
	require.NoError(t, repository.NewUserRepository().SetBanned(ctx, user.ID, true, "spam"))

	_, err := taskDomain.Submit(xcontext.WithRequestUserID(ctx, 7), &model.SubmitTaskRequest{
		Type: "woodcutting", Count: 1, EvidencePath: "e.png",
	})
	require.Equal(t, errorx.Banned, err.(errorx.Error).Code)
}

func Test_taskDomain_Submit_dailyLimit(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()
	userCtx := xcontext.WithRequestUserID(ctx, 1)

	for i := 0; i < 10; i++ {
		_, err := taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
			Type: "contracts", Count: 1, EvidencePath: "e.png",
		})
		require.NoError(t, err)
	}

	_, err := taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type: "contracts", Count: 1, EvidencePath: "e.png",
	})
	require.Error(t, err)
	require.Equal(t, errorx.QuotaExceeded, err.(errorx.Error).Code)
}

func Test_taskDomain_Submit_lazyRollover(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()

	// Yesterday's exhausted counters do not block today's submission even if
	// the scheduled reset has not run.
	user := testutil.SampleUser(ctx, 1, 0)
	err := repository.NewUserRepository().UpdateDailyCounters(
		ctx, user.ID, 10, entity.Dict[string, int]{"contracts": 10}, "2020-01-01")
	require.NoError(t, err)

	_, err = taskDomain.Submit(xcontext.WithRequestUserID(ctx, 1), &model.SubmitTaskRequest{
		Type: "contracts", Count: 1, EvidencePath: "e.png",
	})
	require.NoError(t, err)
}

func Test_taskDomain_Reject_releasesQuota(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, ledgerDomain := newTestTaskDomain()
	userCtx := xcontext.WithRequestUserID(ctx, 1)
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminID)

	// family_contracts is capped at 10 per day; one full submission uses the
	// whole cap.
	submitResp, err := taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type: "family_contracts", Count: 10, EvidencePath: "e.png",
	})
	require.NoError(t, err)

	_, err = taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type: "family_contracts", Count: 1, EvidencePath: "e.png",
	})
	require.Equal(t, errorx.QuotaExceeded, err.(errorx.Error).Code)

	// Rejection requires a reason.
	_, err = taskDomain.Review(adminCtx, &model.ReviewTaskRequest{
		ID: submitResp.ID, Action: "rejected",
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = taskDomain.Review(adminCtx, &model.ReviewTaskRequest{
		ID: submitResp.ID, Action: "rejected", Reason: "blurry screenshot",
	})
	require.NoError(t, err)

	// No points were awarded and the per-type quota is free again.
	balance, err := ledgerDomain.GetBalance(userCtx, &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), balance.Balance)

	_, err = taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type: "family_contracts", Count: 10, EvidencePath: "e.png",
	})
	require.NoError(t, err)
}

func Test_taskDomain_Review_permissions(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()
	userCtx := xcontext.WithRequestUserID(ctx, 1)
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminID)

	submitResp, err := taskDomain.Submit(userCtx, &model.SubmitTaskRequest{
		Type: "contracts", Count: 1, EvidencePath: "e.png",
	})
	require.NoError(t, err)

	_, err = taskDomain.Review(userCtx, &model.ReviewTaskRequest{
		ID: submitResp.ID, Action: "approved",
	})
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = taskDomain.Review(adminCtx, &model.ReviewTaskRequest{
		ID: submitResp.ID, Action: "pending",
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = taskDomain.Review(adminCtx, &model.ReviewTaskRequest{
		ID: 999999, Action: "approved",
	})
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_taskDomain_GetPendingList(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.AdminID)

	for userID := int64(1); userID <= 3; userID++ {
		_, err := taskDomain.Submit(xcontext.WithRequestUserID(ctx, userID),
			&model.SubmitTaskRequest{Type: "contracts", Count: 1, EvidencePath: "e.png"})
		require.NoError(t, err)
	}

	_, err := taskDomain.GetPendingList(ctx, &model.GetPendingTasksRequest{})
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	resp, err := taskDomain.GetPendingList(adminCtx, &model.GetPendingTasksRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 3)

	resp, err = taskDomain.GetPendingList(adminCtx, &model.GetPendingTasksRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 2)
}

func Test_taskDomain_Get_permissions(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()

	submitResp, err := taskDomain.Submit(xcontext.WithRequestUserID(ctx, 1),
		&model.SubmitTaskRequest{Type: "contracts", Count: 1, EvidencePath: "e.png"})
	require.NoError(t, err)

	// Another regular user cannot read it; the owner and admins can.
	_, err = taskDomain.Get(xcontext.WithRequestUserID(ctx, 2),
		&model.GetTaskRequest{ID: submitResp.ID})
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = taskDomain.Get(xcontext.WithRequestUserID(ctx, 1),
		&model.GetTaskRequest{ID: submitResp.ID})
	require.NoError(t, err)

	_, err = taskDomain.Get(xcontext.WithRequestUserID(ctx, testutil.AdminID),
		&model.GetTaskRequest{ID: submitResp.ID})
	require.NoError(t, err)
}

func Test_taskDomain_GetCatalog(t *testing.T) {
	ctx := testutil.MockContext()
	taskDomain, _ := newTestTaskDomain()

	resp, err := taskDomain.GetCatalog(ctx, &model.GetTaskCatalogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Types, 10)
	require.Equal(t, int64(5), resp.Types["contracts"].Points)
	require.Equal(t, 16, resp.Types["contracts"].MaxPerSubmission)
	require.Equal(t, 10, resp.Types["family_contracts"].MaxPerDay)
}
