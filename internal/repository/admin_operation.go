package repository

import (
	"context"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/pkg/xcontext"
)

type AdminOperationRepository interface {
	Create(ctx context.Context, data *entity.AdminOperation) error
	GetListByUserID(ctx context.Context, userID int64, limit int) ([]entity.AdminOperation, error)
}

type adminOperationRepository struct{}

func NewAdminOperationRepository() *adminOperationRepository {
	return &adminOperationRepository{}
}

func (r *adminOperationRepository) Create(ctx context.Context, data *entity.AdminOperation) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *adminOperationRepository) GetListByUserID(
	ctx context.Context, userID int64, limit int,
) ([]entity.AdminOperation, error) {
	result := []entity.AdminOperation{}
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
