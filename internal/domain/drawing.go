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
	"github.com/famquest/backend/pkg/crypto"
	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/idutil"
	"github.com/famquest/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const maxWinners = 5

type DrawingDomain interface {
	Create(context.Context, *model.CreateDrawingRequest) (*model.CreateDrawingResponse, error)
	Join(context.Context, *model.JoinDrawingRequest) (*model.JoinDrawingResponse, error)
	Draw(context.Context, *model.DrawWinnersRequest) (*model.DrawWinnersResponse, error)
	Get(context.Context, *model.GetDrawingRequest) (*model.GetDrawingResponse, error)
	GetActiveList(context.Context, *model.GetActiveDrawingsRequest) (*model.GetActiveDrawingsResponse, error)
	GetFinishedList(context.Context, *model.GetFinishedDrawingsRequest) (*model.GetFinishedDrawingsResponse, error)
	GetMyWins(context.Context, *model.GetMyWinsRequest) (*model.GetMyWinsResponse, error)

	// ExecuteDraw is also called by the scheduler when a drawing expires, so
	// it performs no permission check itself.
	ExecuteDraw(ctx context.Context, drawingID int64) (*model.DrawWinnersResponse, error)
}

type drawingDomain struct {
	drawingRepo   repository.DrawingRepository
	userRepo      repository.UserRepository
	ledger        *common.Ledger
	adminVerifier *common.AdminVerifier
	notifier      notification.Notifier

	// intn is the randomness source of ExecuteDraw.
	intn crypto.IntnFunc
}

func NewDrawingDomain(
	drawingRepo repository.DrawingRepository,
	userRepo repository.UserRepository,
	adminOperationRepo repository.AdminOperationRepository,
	notifier notification.Notifier,
) *drawingDomain {
	return &drawingDomain{
		drawingRepo:   drawingRepo,
		userRepo:      userRepo,
		ledger:        common.NewLedger(userRepo, adminOperationRepo),
		adminVerifier: common.NewAdminVerifier(),
		notifier:      notifier,
		intn:          crypto.RandIntn,
	}
}

func (d *drawingDomain) Create(
	ctx context.Context, req *model.CreateDrawingRequest,
) (*model.CreateDrawingResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, errorx.New(errorx.BadRequest, "Name must not be empty")
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
	}

	maxWindow := xcontext.Configs(ctx).Quest.MaxDrawingWindow
	if maxWindow > 0 && req.EndTime.Sub(req.StartTime) > maxWindow {
		return nil, errorx.New(errorx.BadRequest,
			"Drawing window must not exceed %s", maxWindow)
	}

	if req.MinParticipants < 2 {
		return nil, errorx.New(errorx.BadRequest, "Min participants must be at least 2")
	}

	if req.MaxParticipants > 1000 {
		return nil, errorx.New(errorx.BadRequest, "Max participants must not exceed 1000")
	}

	// Every drawing is capped; there is no unlimited capacity.
	if req.MaxParticipants <= req.MinParticipants {
		return nil, errorx.New(errorx.BadRequest,
			"Max participants must be above min participants")
	}

	if req.EntryCost < 0 {
		return nil, errorx.New(errorx.BadRequest, "Entry cost must not be negative")
	}

	if _, err := d.drawingRepo.GetByName(ctx, req.Name); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "A drawing with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check drawing name: %v", err)
		return nil, errorx.Unknown
	}

	badges := xcontext.Configs(ctx).Catalog.Badges
	for _, badge := range req.RequiredBadges {
		if _, ok := badges[badge]; !ok {
			return nil, errorx.New(errorx.BadRequest, "Unknown badge %s", badge)
		}
	}

	status := entity.DrawingAnnounced
	if !req.StartTime.After(time.Now()) {
		status = entity.DrawingActive
	}

	drawing := &entity.Drawing{
		Base:            entity.Base{ID: idutil.NextID()},
		Name:            req.Name,
		Description:     req.Description,
		Prize:           req.Prize,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          status,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		EntryCost:       req.EntryCost,
		RequiredBadges:  req.RequiredBadges,
		Participants:    entity.Array[int64]{},
		TicketNumbers:   entity.Dict[int64, int]{},
		Winners:         entity.Dict[int, int64]{},
	}

	if err := d.drawingRepo.Create(ctx, drawing); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create drawing: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateDrawingResponse{ID: drawing.ID}, nil
}

func (d *drawingDomain) Join(
	ctx context.Context, req *model.JoinDrawingRequest,
) (*model.JoinDrawingResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	drawing, err := d.drawingRepo.GetByID(ctx, req.DrawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found drawing")
		}

		xcontext.Logger(ctx).Errorf("Cannot get drawing: %v", err)
		return nil, errorx.Unknown
	}

	user, err := common.GetOrCreateUser(ctx, d.userRepo, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.checkEligibility(drawing, user, time.Now()); err != nil {
		return nil, err
	}

	// Charge before registering; a failed registration rolls the charge back
	// with the transaction.
	if drawing.EntryCost > 0 {
		err = d.ledger.Adjust(ctx, userID, -drawing.EntryCost, 0, "",
			fmt.Sprintf("drawing entry: %s", drawing.Name))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot charge entry cost: %v", err)
			return nil, errorx.Unknown
		}
	}

	ticket := len(drawing.Participants) + 1
	drawing.Participants = append(drawing.Participants, userID)
	if drawing.TicketNumbers == nil {
		drawing.TicketNumbers = entity.Dict[int64, int]{}
	}
	drawing.TicketNumbers[userID] = ticket

	if err := d.drawingRepo.AddParticipant(ctx, drawing, userID, ticket); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add participant: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	notification.Broadcast(ctx, d.notifier, xcontext.Configs(ctx).AdminIDs,
		func(adminID int64) *notification.Event {
			return notification.New(notification.DrawingJoined, adminID, map[string]any{
				"drawing_id":    drawing.ID,
				"drawing_name":  drawing.Name,
				"user_id":       userID,
				"ticket_number": ticket,
			})
		})

	return &model.JoinDrawingResponse{TicketNumber: ticket}, nil
}

// checkEligibility validates a join attempt. The checks run in a fixed order
// so the caller always reports the most fundamental failure first.
func (d *drawingDomain) checkEligibility(
	drawing *entity.Drawing, user *entity.User, now time.Time,
) error {
	if drawing.Status != entity.DrawingActive {
		return errorx.New(errorx.NotActive, "This drawing is not active")
	}

	if now.Before(drawing.StartTime) || now.After(drawing.EndTime) {
		return errorx.New(errorx.NotActive, "This drawing is not open for entries")
	}

	if user.IsBanned {
		return errorx.New(errorx.Banned, "You are banned: %s", user.BanReason)
	}

	if slices.Contains(drawing.Participants, user.ID) {
		return errorx.New(errorx.AlreadyJoined, "You already joined this drawing")
	}

	if len(drawing.Participants) >= drawing.MaxParticipants {
		return errorx.New(errorx.Full, "This drawing is full")
	}

	for _, badge := range drawing.RequiredBadges {
		if !slices.Contains(user.Badges, badge) {
			return errorx.New(errorx.MissingBadge, "This drawing requires the %s badge", badge)
		}
	}

	if user.Balance < drawing.EntryCost {
		return errorx.New(errorx.InsufficientPoints,
			"You need %d points to join", drawing.EntryCost)
	}

	return nil
}

func (d *drawingDomain) Draw(
	ctx context.Context, req *model.DrawWinnersRequest,
) (*model.DrawWinnersResponse, error) {
	if err := d.adminVerifier.Verify(ctx); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return d.ExecuteDraw(ctx, req.DrawingID)
}

func (d *drawingDomain) ExecuteDraw(
	ctx context.Context, drawingID int64,
) (*model.DrawWinnersResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	drawing, err := d.drawingRepo.GetByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found drawing")
		}

		xcontext.Logger(ctx).Errorf("Cannot get drawing: %v", err)
		return nil, errorx.Unknown
	}

	// A repeated draw is a no-op returning the recorded outcome.
	if drawing.Status == entity.DrawingFinished {
		xcontext.WithCommitDBTransaction(ctx)
		return &model.DrawWinnersResponse{Winners: drawing.Winners}, nil
	}

	if drawing.Status == entity.DrawingCancelled {
		xcontext.WithCommitDBTransaction(ctx)
		return &model.DrawWinnersResponse{Cancelled: true}, nil
	}

	if drawing.Status != entity.DrawingActive {
		return nil, errorx.New(errorx.Unavailable, "This drawing has not started")
	}

	if time.Now().Before(drawing.EndTime) {
		return nil, errorx.New(errorx.Unavailable, "This drawing has not ended yet")
	}

	// Entry costs are not refunded on cancellation; joining an undersubscribed
	// drawing is a known risk announced with the drawing.
	if len(drawing.Participants) < drawing.MinParticipants {
		if err := d.drawingRepo.Cancel(ctx, drawing.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot cancel drawing: %v", err)
			return nil, errorx.Unknown
		}

		xcontext.WithCommitDBTransaction(ctx)

		notification.Broadcast(ctx, d.notifier, drawing.Participants,
			func(userID int64) *notification.Event {
				return notification.New(notification.DrawingCancelled, userID, map[string]any{
					"drawing_id":   drawing.ID,
					"drawing_name": drawing.Name,
				})
			})

		return &model.DrawWinnersResponse{Cancelled: true}, nil
	}

	n := len(drawing.Participants)
	k := n/10 + 1
	if k > maxWinners {
		k = maxWinners
	}

	picked := crypto.Sample(d.intn, drawing.Participants, k)

	winners := entity.Dict[int, int64]{}
	for i, userID := range picked {
		winners[i+1] = userID
	}

	// The end time is restamped to the moment the winners were drawn, which
	// may be well past the scheduled end if the sweep lagged.
	if err := d.drawingRepo.Finish(ctx, drawing.ID, winners, time.Now()); err != nil {
		// Lost the race against a concurrent draw of the same drawing.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			finished, err := d.drawingRepo.GetByID(ctx, drawing.ID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get drawing: %v", err)
				return nil, errorx.Unknown
			}

			xcontext.WithCommitDBTransaction(ctx)
			return &model.DrawWinnersResponse{
				Cancelled: finished.Status == entity.DrawingCancelled,
				Winners:   finished.Winners,
			}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot finish drawing: %v", err)
		return nil, errorx.Unknown
	}

	for place, userID := range winners {
		if err := d.userRepo.RecordDrawingWin(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record drawing win: %v", err)
			return nil, errorx.Unknown
		}

		err := d.drawingRepo.SetParticipationPlace(ctx, drawing.ID, userID, place)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set participation place: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.announceResult(ctx, drawing, winners)

	return &model.DrawWinnersResponse{Winners: winners}, nil
}

func (d *drawingDomain) announceResult(
	ctx context.Context, drawing *entity.Drawing, winners entity.Dict[int, int64],
) {
	placeOf := map[int64]int{}
	for place, userID := range winners {
		placeOf[userID] = place
	}

	notification.Broadcast(ctx, d.notifier, drawing.Participants,
		func(userID int64) *notification.Event {
			data := map[string]any{
				"drawing_id":   drawing.ID,
				"drawing_name": drawing.Name,
				"prize":        drawing.Prize,
			}

			if place, ok := placeOf[userID]; ok {
				data["place"] = place
				return notification.New(notification.DrawingWon, userID, data)
			}

			return notification.New(notification.DrawingFinished, userID, data)
		})
}

func (d *drawingDomain) Get(
	ctx context.Context, req *model.GetDrawingRequest,
) (*model.GetDrawingResponse, error) {
	drawing, err := d.drawingRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found drawing")
		}

		xcontext.Logger(ctx).Errorf("Cannot get drawing: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetDrawingResponse{Drawing: model.ConvertDrawing(drawing)}

	userID := xcontext.RequestUserID(ctx)
	if userID != 0 {
		user, err := d.userRepo.GetByID(ctx, userID)
		if err == nil {
			resp.CanParticipate = d.checkEligibility(drawing, user, time.Now()) == nil
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			// A first-time user has an empty profile.
			resp.CanParticipate = d.checkEligibility(
				drawing, &entity.User{Base: entity.Base{ID: userID}}, time.Now()) == nil
		} else {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}
	}

	return resp, nil
}

func (d *drawingDomain) GetActiveList(
	ctx context.Context, req *model.GetActiveDrawingsRequest,
) (*model.GetActiveDrawingsResponse, error) {
	drawings, err := d.drawingRepo.GetActiveList(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active drawings: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Drawing{}
	for _, drawing := range drawings {
		drawing := drawing
		result = append(result, model.ConvertDrawing(&drawing))
	}

	return &model.GetActiveDrawingsResponse{Drawings: result}, nil
}

func (d *drawingDomain) GetFinishedList(
	ctx context.Context, req *model.GetFinishedDrawingsRequest,
) (*model.GetFinishedDrawingsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 10
	}

	if req.Limit < 0 || req.Limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	drawings, err := d.drawingRepo.GetFinishedList(ctx, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get finished drawings: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Drawing{}
	for _, drawing := range drawings {
		drawing := drawing
		result = append(result, model.ConvertDrawing(&drawing))
	}

	return &model.GetFinishedDrawingsResponse{Drawings: result}, nil
}

func (d *drawingDomain) GetMyWins(
	ctx context.Context, req *model.GetMyWinsRequest,
) (*model.GetMyWinsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	participations, err := d.drawingRepo.GetParticipationsByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participations: %v", err)
		return nil, errorx.Unknown
	}

	wins := []model.DrawingWin{}
	for _, p := range participations {
		if p.WonPlace == 0 {
			continue
		}

		wins = append(wins, model.DrawingWin{
			DrawingID:    p.DrawingID,
			TicketNumber: p.TicketNumber,
			WonPlace:     p.WonPlace,
			JoinedAt:     p.CreatedAt.Format(model.DefaultTimeLayout),
		})
	}

	return &model.GetMyWinsResponse{Wins: wins}, nil
}
