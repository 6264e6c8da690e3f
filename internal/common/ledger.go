package common

import (
	"context"
	"errors"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/idutil"
	"gorm.io/gorm"
)

// Ledger is the single entry point for balance mutations. Every adjustment
// attributed to an admin appends exactly one audit record; anonymous
// adjustments (drawing entry charges) append none.
//
// The ledger enforces no lower bound: callers pre-check sufficient balance
// before spending.
type Ledger struct {
	userRepo           repository.UserRepository
	adminOperationRepo repository.AdminOperationRepository
}

func NewLedger(
	userRepo repository.UserRepository,
	adminOperationRepo repository.AdminOperationRepository,
) *Ledger {
	return &Ledger{
		userRepo:           userRepo,
		adminOperationRepo: adminOperationRepo,
	}
}

// Adjust atomically adds delta to the user's balance. When adminID is
// non-zero, an audit record of the given kind is appended; an empty kind is
// derived from the sign of delta.
func (l *Ledger) Adjust(
	ctx context.Context, userID, delta, adminID int64, kind entity.OperationKind, note string,
) error {
	if err := l.userRepo.IncreaseBalance(ctx, userID, delta); err != nil {
		return err
	}

	if adminID == 0 {
		return nil
	}

	if kind == "" {
		kind = entity.OpAddPoints
		if delta < 0 {
			kind = entity.OpRemovePoints
		}
	}

	return l.adminOperationRepo.Create(ctx, &entity.AdminOperation{
		ID:          idutil.NextID(),
		AdminID:     adminID,
		UserID:      userID,
		Kind:        kind,
		PointsDelta: delta,
		Note:        note,
	})
}

// GetOrCreateUser loads a user, creating the row on first interaction.
func GetOrCreateUser(
	ctx context.Context, userRepo repository.UserRepository, userID int64,
) (*entity.User, error) {
	user, err := userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &entity.User{
		Base:        entity.Base{ID: userID},
		Badges:      entity.Array[string]{},
		DailyByType: entity.Dict[string, int]{},
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
