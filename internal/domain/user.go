package domain

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/famquest/backend/internal/common"
	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/model"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/idutil"
	"github.com/famquest/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	minNameLen = 3
	maxNameLen = 20
)

type UserDomain interface {
	Get(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	SetName(context.Context, *model.SetNameRequest) (*model.SetNameResponse, error)
	SetBadge(context.Context, *model.SetBadgeRequest) (*model.SetBadgeResponse, error)
	SetEmoji(context.Context, *model.SetEmojiRequest) (*model.SetEmojiResponse, error)
	Ban(context.Context, *model.BanUserRequest) (*model.BanUserResponse, error)
	Search(context.Context, *model.SearchUsersRequest) (*model.SearchUsersResponse, error)
	GetTop(context.Context, *model.GetTopUsersRequest) (*model.GetTopUsersResponse, error)
	GetStats(context.Context, *model.GetUserStatsRequest) (*model.GetUserStatsResponse, error)
}

type userDomain struct {
	userRepo           repository.UserRepository
	taskRepo           repository.TaskSubmissionRepository
	drawingRepo        repository.DrawingRepository
	adminOperationRepo repository.AdminOperationRepository
	adminVerifier      *common.AdminVerifier
}

func NewUserDomain(
	userRepo repository.UserRepository,
	taskRepo repository.TaskSubmissionRepository,
	drawingRepo repository.DrawingRepository,
	adminOperationRepo repository.AdminOperationRepository,
) *userDomain {
	return &userDomain{
		userRepo:           userRepo,
		taskRepo:           taskRepo,
		drawingRepo:        drawingRepo,
		adminOperationRepo: adminOperationRepo,
		adminVerifier:      common.NewAdminVerifier(),
	}
}

func (d *userDomain) Get(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	userID := req.UserID
	if userID == 0 {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := common.GetOrCreateUser(ctx, d.userRepo, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.GetUserResponse{User: model.ConvertUser(user)}, nil
}

func (d *userDomain) SetName(
	ctx context.Context, req *model.SetNameRequest,
) (*model.SetNameResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return nil, errorx.New(errorx.BadRequest,
			"Name must be between %d and %d characters", minNameLen, maxNameLen)
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

	if err := d.userRepo.UpdateName(ctx, userID, name); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update name: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SetNameResponse{}, nil
}

func (d *userDomain) SetBadge(
	ctx context.Context, req *model.SetBadgeRequest,
) (*model.SetBadgeResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, ok := xcontext.Configs(ctx).Catalog.Badges[req.Badge]; !ok {
		return nil, errorx.New(errorx.BadRequest, "Unknown badge %s", req.Badge)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := common.GetOrCreateUser(ctx, d.userRepo, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	badges := []string(user.Badges)
	has := slices.Contains(badges, req.Badge)
	switch {
	case req.Grant && !has:
		badges = append(badges, req.Badge)
	case !req.Grant && has:
		badges = slices.DeleteFunc(badges, func(b string) bool { return b == req.Badge })
	default:
		return &model.SetBadgeResponse{}, nil
	}

	if err := d.userRepo.UpdateBadges(ctx, req.UserID, badges); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update badges: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.logOperation(ctx, req.UserID, entity.OpSetBadge, req.Note); err != nil {
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SetBadgeResponse{}, nil
}

func (d *userDomain) SetEmoji(
	ctx context.Context, req *model.SetEmojiRequest,
) (*model.SetEmojiResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := common.GetOrCreateUser(ctx, d.userRepo, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateEmoji(ctx, req.UserID, req.Emoji); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update emoji: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.logOperation(ctx, req.UserID, entity.OpSetEmoji, req.Note); err != nil {
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.SetEmojiResponse{}, nil
}

func (d *userDomain) Ban(
	ctx context.Context, req *model.BanUserRequest,
) (*model.BanUserResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Banned && strings.TrimSpace(req.Reason) == "" {
		return nil, errorx.New(errorx.BadRequest, "Ban requires a reason")
	}

	// An admin cannot ban another admin.
	if req.Banned && slices.Contains(xcontext.Configs(ctx).AdminIDs, req.UserID) {
		return nil, errorx.New(errorx.BadRequest, "Cannot ban an admin")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := common.GetOrCreateUser(ctx, d.userRepo, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	reason := req.Reason
	if !req.Banned {
		reason = ""
	}

	if err := d.userRepo.SetBanned(ctx, req.UserID, req.Banned, reason); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ban user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.logOperation(ctx, req.UserID, entity.OpBanUser, req.Reason); err != nil {
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.BanUserResponse{}, nil
}

func (d *userDomain) logOperation(
	ctx context.Context, userID int64, kind entity.OperationKind, note string,
) error {
	err := d.adminOperationRepo.Create(ctx, &entity.AdminOperation{
		ID:      idutil.NextID(),
		AdminID: xcontext.RequestUserID(ctx),
		UserID:  userID,
		Kind:    kind,
		Note:    note,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create admin operation: %v", err)
	}

	return err
}

func (d *userDomain) GetStats(
	ctx context.Context, req *model.GetUserStatsRequest,
) (*model.GetUserStatsResponse, error) {
	userID := req.UserID
	if userID == 0 {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	taskCounts, err := d.taskRepo.CountByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count submissions: %v", err)
		return nil, errorx.Unknown
	}

	drawingsJoined, err := d.drawingRepo.CountParticipationsByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count participations: %v", err)
		return nil, errorx.Unknown
	}

	stats := model.UserStats{
		Balance:        user.Balance,
		TasksPending:   taskCounts[entity.TaskPending],
		TasksApproved:  taskCounts[entity.TaskApproved],
		TasksRejected:  taskCounts[entity.TaskRejected],
		DrawingsJoined: drawingsJoined,
		DrawingsWon:    user.DrawingsWon,
	}

	if !user.LastDrawingWin.IsZero() {
		stats.LastDrawingWin = user.LastDrawingWin.Format(model.DefaultTimeLayout)
	}

	return &model.GetUserStatsResponse{Stats: stats}, nil
}

func (d *userDomain) Search(
	ctx context.Context, req *model.SearchUsersRequest,
) (*model.SearchUsersResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, errorx.New(errorx.BadRequest, "Query must not be empty")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	users, err := d.userRepo.Search(ctx, req.Query, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search users: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.User{}
	for _, user := range users {
		user := user
		result = append(result, model.ConvertUser(&user))
	}

	return &model.SearchUsersResponse{Users: result}, nil
}

func (d *userDomain) GetTop(
	ctx context.Context, req *model.GetTopUsersRequest,
) (*model.GetTopUsersResponse, error) {
	if req.Limit == 0 {
		req.Limit = 10
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	users, err := d.userRepo.GetTop(ctx, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top users: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.User{}
	for _, user := range users {
		user := user
		result = append(result, model.ConvertUser(&user))
	}

	return &model.GetTopUsersResponse{Users: result}, nil
}
