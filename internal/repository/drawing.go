package repository

import (
	"context"
	"time"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DrawingRepository interface {
	Create(ctx context.Context, data *entity.Drawing) error
	GetByID(ctx context.Context, id int64) (*entity.Drawing, error)
	GetByName(ctx context.Context, name string) (*entity.Drawing, error)
	GetActiveList(ctx context.Context, now time.Time) ([]entity.Drawing, error)
	GetFinishedList(ctx context.Context, limit int) ([]entity.Drawing, error)
	GetExpiredActive(ctx context.Context, now time.Time) ([]entity.Drawing, error)
	GetStartedAnnounced(ctx context.Context, now time.Time) ([]entity.Drawing, error)
	Activate(ctx context.Context, id int64) error
	AddParticipant(ctx context.Context, drawing *entity.Drawing, userID int64, ticket int) error
	Finish(ctx context.Context, id int64, winners entity.Dict[int, int64], endTime time.Time) error
	Cancel(ctx context.Context, id int64) error
	SetParticipationPlace(ctx context.Context, drawingID, userID int64, place int) error
	GetParticipationsByUserID(ctx context.Context, userID int64) ([]entity.DrawingParticipation, error)
	CountParticipationsByUserID(ctx context.Context, userID int64) (int64, error)
}

type drawingRepository struct{}

func NewDrawingRepository() *drawingRepository {
	return &drawingRepository{}
}

func (r *drawingRepository) Create(ctx context.Context, data *entity.Drawing) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *drawingRepository) GetByID(ctx context.Context, id int64) (*entity.Drawing, error) {
	var result entity.Drawing
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *drawingRepository) GetByName(ctx context.Context, name string) (*entity.Drawing, error) {
	var result entity.Drawing
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *drawingRepository) GetActiveList(ctx context.Context, now time.Time) ([]entity.Drawing, error) {
	result := []entity.Drawing{}
	err := xcontext.DB(ctx).
		Where("status=? AND start_time <= ? AND end_time >= ?", entity.DrawingActive, now, now).
		Order("end_time ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *drawingRepository) GetFinishedList(ctx context.Context, limit int) ([]entity.Drawing, error) {
	result := []entity.Drawing{}
	err := xcontext.DB(ctx).
		Where("status=?", entity.DrawingFinished).
		Order("end_time DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *drawingRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]entity.Drawing, error) {
	result := []entity.Drawing{}
	err := xcontext.DB(ctx).
		Where("status=? AND end_time < ?", entity.DrawingActive, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *drawingRepository) GetStartedAnnounced(ctx context.Context, now time.Time) ([]entity.Drawing, error) {
	result := []entity.Drawing{}
	err := xcontext.DB(ctx).
		Where("status=? AND start_time <= ?", entity.DrawingAnnounced, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *drawingRepository) Activate(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Drawing{}).
		Where("id=? AND status=?", id, entity.DrawingAnnounced).
		Update("status", entity.DrawingActive)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// AddParticipant persists the updated participant list, ticket map, and the
// participation row of one join. The caller must have appended the user to
// drawing.Participants and drawing.TicketNumbers already, inside an open
// transaction.
func (r *drawingRepository) AddParticipant(
	ctx context.Context, drawing *entity.Drawing, userID int64, ticket int,
) error {
	err := xcontext.DB(ctx).
		Model(&entity.Drawing{}).
		Where("id=?", drawing.ID).
		Updates(map[string]any{
			"participants":   drawing.Participants,
			"ticket_numbers": drawing.TicketNumbers,
		}).Error
	if err != nil {
		return err
	}

	return xcontext.DB(ctx).Create(&entity.DrawingParticipation{
		DrawingID:    drawing.ID,
		UserID:       userID,
		TicketNumber: ticket,
	}).Error
}

func (r *drawingRepository) Finish(
	ctx context.Context, id int64, winners entity.Dict[int, int64], endTime time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Drawing{}).
		Where("id=? AND status=?", id, entity.DrawingActive).
		Updates(map[string]any{
			"status":   entity.DrawingFinished,
			"winners":  winners,
			"end_time": endTime,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *drawingRepository) Cancel(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Drawing{}).
		Where("id=? AND status IN (?)", id,
			[]entity.DrawingStatus{entity.DrawingAnnounced, entity.DrawingActive}).
		Update("status", entity.DrawingCancelled)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *drawingRepository) SetParticipationPlace(
	ctx context.Context, drawingID, userID int64, place int,
) error {
	return xcontext.DB(ctx).
		Model(&entity.DrawingParticipation{}).
		Where("drawing_id=? AND user_id=?", drawingID, userID).
		Update("won_place", place).Error
}

func (r *drawingRepository) CountParticipationsByUserID(
	ctx context.Context, userID int64,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.DrawingParticipation{}).
		Where("user_id=?", userID).
		Count(&count).Error

	return count, err
}

func (r *drawingRepository) GetParticipationsByUserID(
	ctx context.Context, userID int64,
) ([]entity.DrawingParticipation, error) {
	result := []entity.DrawingParticipation{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
