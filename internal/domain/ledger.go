package domain

import (
	"context"
	"errors"

	"github.com/famquest/backend/internal/common"
	"github.com/famquest/backend/internal/model"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LedgerDomain interface {
	Adjust(context.Context, *model.AdjustPointsRequest) (*model.AdjustPointsResponse, error)
	GetBalance(context.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
	GetHistory(context.Context, *model.GetPointHistoryRequest) (*model.GetPointHistoryResponse, error)
}

type ledgerDomain struct {
	userRepo           repository.UserRepository
	adminOperationRepo repository.AdminOperationRepository
	ledger             *common.Ledger
	adminVerifier      *common.AdminVerifier
}

func NewLedgerDomain(
	userRepo repository.UserRepository,
	adminOperationRepo repository.AdminOperationRepository,
) *ledgerDomain {
	return &ledgerDomain{
		userRepo:           userRepo,
		adminOperationRepo: adminOperationRepo,
		ledger:             common.NewLedger(userRepo, adminOperationRepo),
		adminVerifier:      common.NewAdminVerifier(),
	}
}

func (d *ledgerDomain) Adjust(
	ctx context.Context, req *model.AdjustPointsRequest,
) (*model.AdjustPointsResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Delta == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a zero delta")
	}

	adminID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.ledger.Adjust(ctx, req.UserID, req.Delta, adminID, "", req.Note)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot adjust balance: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user after adjustment: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.AdjustPointsResponse{Balance: user.Balance}, nil
}

func (d *ledgerDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	userID := req.UserID
	if userID == 0 {
		userID = xcontext.RequestUserID(ctx)
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBalanceResponse{Balance: user.Balance}, nil
}

func (d *ledgerDomain) GetHistory(
	ctx context.Context, req *model.GetPointHistoryRequest,
) (*model.GetPointHistoryResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	operations, err := d.adminOperationRepo.GetListByUserID(ctx, req.UserID, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get admin operations: %v", err)
		return nil, errorx.Unknown
	}

	clientOperations := []model.AdminOperation{}
	for _, op := range operations {
		op := op
		clientOperations = append(clientOperations, model.ConvertAdminOperation(&op))
	}

	return &model.GetPointHistoryResponse{Operations: clientOperations}, nil
}
