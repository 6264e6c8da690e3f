package repository

import (
	"context"
	"errors"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.User, error)
	IncreaseBalance(ctx context.Context, id int64, delta int64) error
	UpdateDailyCounters(ctx context.Context, id int64, total int, byType entity.Dict[string, int], day string) error
	ResetDailyCounters(ctx context.Context, day string) (int64, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateEmoji(ctx context.Context, id int64, emoji string) error
	UpdateBadges(ctx context.Context, id int64, badges []string) error
	SetBanned(ctx context.Context, id int64, banned bool, reason string) error
	RecordDrawingWin(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, limit int) ([]entity.User, error)
	GetTop(ctx context.Context, limit int) ([]entity.User, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.User, error) {
	result := []entity.User{}
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) IncreaseBalance(ctx context.Context, id int64, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("balance", gorm.Expr("balance+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) UpdateDailyCounters(
	ctx context.Context, id int64, total int, byType entity.Dict[string, int], day string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{
			"daily_total":   total,
			"daily_by_type": byType,
			"last_task_day": day,
		}).Error
}

func (r *userRepository) ResetDailyCounters(ctx context.Context, day string) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("last_task_day <> ? OR last_task_day IS NULL OR last_task_day = ''", day).
		Updates(map[string]any{
			"daily_total":   0,
			"daily_by_type": entity.Dict[string, int]{},
			"last_task_day": day,
		})

	return tx.RowsAffected, tx.Error
}

func (r *userRepository) UpdateName(ctx context.Context, id int64, name string) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("name", name).Error
}

func (r *userRepository) UpdateEmoji(ctx context.Context, id int64, emoji string) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("custom_emoji", emoji).Error
}

func (r *userRepository) UpdateBadges(ctx context.Context, id int64, badges []string) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("badges", entity.Array[string](badges)).Error
}

func (r *userRepository) SetBanned(ctx context.Context, id int64, banned bool, reason string) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{"is_banned": banned, "ban_reason": reason}).Error
}

func (r *userRepository) RecordDrawingWin(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{
			"drawings_won":     gorm.Expr("drawings_won+1"),
			"last_drawing_win": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *userRepository) Search(ctx context.Context, q string, limit int) ([]entity.User, error) {
	result := []entity.User{}
	err := xcontext.DB(ctx).
		Where("name LIKE ?", "%"+q+"%").
		Order("balance DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetTop(ctx context.Context, limit int) ([]entity.User, error) {
	result := []entity.User{}
	err := xcontext.DB(ctx).
		Where("is_banned=?", false).
		Order("balance DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
