package repository

import (
	"context"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskSubmissionRepository interface {
	Create(ctx context.Context, data *entity.TaskSubmission) error
	GetByID(ctx context.Context, id int64) (*entity.TaskSubmission, error)
	GetPendingList(ctx context.Context, offset, limit int) ([]entity.TaskSubmission, error)
	GetListByUserID(ctx context.Context, userID int64, limit int) ([]entity.TaskSubmission, error)
	UpdateReview(ctx context.Context, id int64, data *entity.TaskSubmission) error
	CountByUserID(ctx context.Context, userID int64) (map[entity.TaskStatus]int64, error)
}

type taskSubmissionRepository struct{}

func NewTaskSubmissionRepository() *taskSubmissionRepository {
	return &taskSubmissionRepository{}
}

func (r *taskSubmissionRepository) Create(ctx context.Context, data *entity.TaskSubmission) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *taskSubmissionRepository) GetByID(ctx context.Context, id int64) (*entity.TaskSubmission, error) {
	var result entity.TaskSubmission
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskSubmissionRepository) GetPendingList(
	ctx context.Context, offset, limit int,
) ([]entity.TaskSubmission, error) {
	result := []entity.TaskSubmission{}
	err := xcontext.DB(ctx).
		Where("status=?", entity.TaskPending).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskSubmissionRepository) GetListByUserID(
	ctx context.Context, userID int64, limit int,
) ([]entity.TaskSubmission, error) {
	result := []entity.TaskSubmission{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskSubmissionRepository) CountByUserID(
	ctx context.Context, userID int64,
) (map[entity.TaskStatus]int64, error) {
	var rows []struct {
		Status entity.TaskStatus
		Total  int64
	}

	err := xcontext.DB(ctx).
		Model(&entity.TaskSubmission{}).
		Select("status, COUNT(*) as total").
		Where("user_id=?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[entity.TaskStatus]int64{}
	for _, row := range rows {
		result[row.Status] = row.Total
	}

	return result, nil
}

// UpdateReview applies the review decision only if the submission is still
// pending. It returns gorm.ErrRecordNotFound when the guard does not match,
// which the caller distinguishes from an unknown id.
func (r *taskSubmissionRepository) UpdateReview(
	ctx context.Context, id int64, data *entity.TaskSubmission,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.TaskSubmission{}).
		Where("id=? AND status=?", id, entity.TaskPending).
		Updates(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
