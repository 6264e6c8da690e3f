package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/famquest/backend/internal/common"
	"github.com/famquest/backend/internal/domain/notification"
	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/model"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/dateutil"
	"github.com/famquest/backend/pkg/enum"
	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/idutil"
	"github.com/famquest/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type TaskDomain interface {
	Submit(context.Context, *model.SubmitTaskRequest) (*model.SubmitTaskResponse, error)
	Review(context.Context, *model.ReviewTaskRequest) (*model.ReviewTaskResponse, error)
	Get(context.Context, *model.GetTaskRequest) (*model.GetTaskResponse, error)
	GetPendingList(context.Context, *model.GetPendingTasksRequest) (*model.GetPendingTasksResponse, error)
	GetMyList(context.Context, *model.GetMyTasksRequest) (*model.GetMyTasksResponse, error)
	GetCatalog(context.Context, *model.GetTaskCatalogRequest) (*model.GetTaskCatalogResponse, error)
}

type taskDomain struct {
	taskRepo      repository.TaskSubmissionRepository
	userRepo      repository.UserRepository
	ledger        *common.Ledger
	adminVerifier *common.AdminVerifier
	notifier      notification.Notifier
}

func NewTaskDomain(
	taskRepo repository.TaskSubmissionRepository,
	userRepo repository.UserRepository,
	adminOperationRepo repository.AdminOperationRepository,
	notifier notification.Notifier,
) *taskDomain {
	return &taskDomain{
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		ledger:        common.NewLedger(userRepo, adminOperationRepo),
		adminVerifier: common.NewAdminVerifier(),
		notifier:      notifier,
	}
}

func (d *taskDomain) Submit(
	ctx context.Context, req *model.SubmitTaskRequest,
) (*model.SubmitTaskResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	taskType, ok := xcontext.Configs(ctx).Catalog.TaskTypes[req.Type]
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unknown task type %s", req.Type)
	}

	if req.Count < 1 || req.Count > taskType.MaxPerSubmission {
		return nil, errorx.New(errorx.BadRequest,
			"Count must be between 1 and %d", taskType.MaxPerSubmission)
	}

	if taskType.RequiresEvidence && req.EvidencePath == "" {
		return nil, errorx.New(errorx.BadRequest, "This task type requires a screenshot")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := common.GetOrCreateUser(ctx, d.userRepo, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.IsBanned {
		return nil, errorx.New(errorx.Banned, "You are banned: %s", user.BanReason)
	}

	// Roll the counters over lazily if the scheduled reset has not run yet,
	// so yesterday's usage never causes a false rejection.
	today := dateutil.Today()
	if user.LastTaskDay != today {
		user.DailyTotal = 0
		user.DailyByType = entity.Dict[string, int]{}
	}

	dailyLimit := xcontext.Configs(ctx).Quest.DailySubmissionLimit
	if user.DailyTotal >= dailyLimit {
		return nil, errorx.New(errorx.QuotaExceeded,
			"You already submitted %d tasks today", dailyLimit)
	}

	// Pending submissions reserve per-type quota immediately; the reservation
	// is released if the submission is later rejected.
	if taskType.MaxPerDay > 0 {
		used := user.DailyByType[req.Type]
		if used+req.Count > taskType.MaxPerDay {
			return nil, errorx.New(errorx.QuotaExceeded,
				"Only %d of this task type left today", taskType.MaxPerDay-used)
		}
	}

	if user.DailyByType == nil {
		user.DailyByType = entity.Dict[string, int]{}
	}

	submission := &entity.TaskSubmission{
		Base:         entity.Base{ID: idutil.NextID()},
		UserID:       userID,
		Type:         req.Type,
		Points:       taskType.Points,
		Count:        req.Count,
		EvidencePath: req.EvidencePath,
		Comment:      req.Comment,
		Status:       entity.TaskPending,
	}

	if err := d.taskRepo.Create(ctx, submission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create submission: %v", err)
		return nil, errorx.Unknown
	}

	user.DailyTotal++
	user.DailyByType[req.Type] += req.Count
	err = d.userRepo.UpdateDailyCounters(ctx, userID, user.DailyTotal, user.DailyByType, today)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update daily counters: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SubmitTaskResponse{ID: submission.ID}, nil
}

func (d *taskDomain) Review(
	ctx context.Context, req *model.ReviewTaskRequest,
) (*model.ReviewTaskResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	action, err := enum.ToEnum[entity.TaskStatus](req.Action)
	if err != nil || !slices.Contains(
		[]entity.TaskStatus{entity.TaskApproved, entity.TaskRejected}, action) {
		return nil, errorx.New(errorx.BadRequest, "Action must be approved or rejected")
	}

	if action == entity.TaskRejected && strings.TrimSpace(req.Reason) == "" {
		return nil, errorx.New(errorx.BadRequest, "Rejection requires a reason")
	}

	submission, err := d.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	if submission.Status != entity.TaskPending {
		return nil, errorx.New(errorx.AlreadyDecided,
			"This submission was already %s", submission.Status)
	}

	adminID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.taskRepo.UpdateReview(ctx, req.ID, &entity.TaskSubmission{
		Status:          action,
		ReviewerID:      adminID,
		ReviewedAt:      time.Now(),
		RejectionReason: req.Reason,
	})
	if err != nil {
		// The pending guard did not match, so another reviewer decided this
		// submission between our read and this update.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyDecided, "This submission was already decided")
		}

		xcontext.Logger(ctx).Errorf("Cannot update review: %v", err)
		return nil, errorx.Unknown
	}

	switch action {
	case entity.TaskApproved:
		award := submission.Points * int64(submission.Count)
		err = d.ledger.Adjust(ctx, submission.UserID, award, adminID,
			entity.OpApproveTask, fmt.Sprintf("approve task #%d", submission.ID))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot award points: %v", err)
			return nil, errorx.Unknown
		}

	case entity.TaskRejected:
		err = d.ledger.Adjust(ctx, submission.UserID, 0, adminID,
			entity.OpRejectTask, req.Reason)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot log rejection: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.releaseQuota(ctx, submission); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot release quota: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	ev := notification.New(notification.TaskReviewed, submission.UserID, map[string]any{
		"submission_id": submission.ID,
		"status":        string(action),
		"reason":        req.Reason,
	})
	if err := d.notifier.Notify(ctx, ev); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot notify user %d: %v", submission.UserID, err)
	}

	return &model.ReviewTaskResponse{}, nil
}

// releaseQuota returns the per-type quota reserved at submit time. The
// reservation only matters on the day it was made; counters of past days are
// reset anyway.
func (d *taskDomain) releaseQuota(ctx context.Context, submission *entity.TaskSubmission) error {
	user, err := d.userRepo.GetByID(ctx, submission.UserID)
	if err != nil {
		return err
	}

	if user.LastTaskDay != dateutil.Today() {
		return nil
	}

	if user.DailyByType == nil {
		return nil
	}

	used := user.DailyByType[submission.Type]
	if used < submission.Count {
		user.DailyByType[submission.Type] = 0
	} else {
		user.DailyByType[submission.Type] = used - submission.Count
	}

	return d.userRepo.UpdateDailyCounters(
		ctx, user.ID, user.DailyTotal, user.DailyByType, user.LastTaskDay)
}

func (d *taskDomain) Get(
	ctx context.Context, req *model.GetTaskRequest,
) (*model.GetTaskResponse, error) {
	submission, err := d.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	// Owners see their own submissions; everyone else needs admin rights.
	if submission.UserID != xcontext.RequestUserID(ctx) {
		if err := d.adminVerifier.Verify(ctx); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	return &model.GetTaskResponse{Task: model.ConvertTaskSubmission(submission)}, nil
}

func (d *taskDomain) GetPendingList(
	ctx context.Context, req *model.GetPendingTasksRequest,
) (*model.GetPendingTasksResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).Quest.PendingListLimit
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	submissions, err := d.taskRepo.GetPendingList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending submissions: %v", err)
		return nil, errorx.Unknown
	}

	tasks := []model.TaskSubmission{}
	for _, s := range submissions {
		s := s
		tasks = append(tasks, model.ConvertTaskSubmission(&s))
	}

	return &model.GetPendingTasksResponse{Tasks: tasks}, nil
}

func (d *taskDomain) GetMyList(
	ctx context.Context, req *model.GetMyTasksRequest,
) (*model.GetMyTasksResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	submissions, err := d.taskRepo.GetListByUserID(ctx, userID, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get submissions: %v", err)
		return nil, errorx.Unknown
	}

	tasks := []model.TaskSubmission{}
	for _, s := range submissions {
		s := s
		tasks = append(tasks, model.ConvertTaskSubmission(&s))
	}

	return &model.GetMyTasksResponse{Tasks: tasks}, nil
}

func (d *taskDomain) GetCatalog(
	ctx context.Context, req *model.GetTaskCatalogRequest,
) (*model.GetTaskCatalogResponse, error) {
	types := map[string]model.TaskType{}
	for tag, cfg := range xcontext.Configs(ctx).Catalog.TaskTypes {
		types[tag] = model.ConvertTaskType(cfg)
	}

	return &model.GetTaskCatalogResponse{Types: types}, nil
}
