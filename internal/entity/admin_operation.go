package entity

import (
	"time"

	"github.com/famquest/backend/pkg/enum"
)

type OperationKind string

var (
	OpAddPoints    = enum.New(OperationKind("add_points"))
	OpRemovePoints = enum.New(OperationKind("remove_points"))
	OpApproveTask  = enum.New(OperationKind("approve_task"))
	OpRejectTask   = enum.New(OperationKind("reject_task"))
	OpSetBadge     = enum.New(OperationKind("set_badge"))
	OpSetEmoji     = enum.New(OperationKind("set_emoji"))
	OpBanUser      = enum.New(OperationKind("ban_user"))
)

// AdminOperation is the append-only audit trail. Records are never updated
// or deleted.
type AdminOperation struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time

	AdminID int64

	UserID int64
	User   User `gorm:"foreignKey:UserID"`

	Kind OperationKind `gorm:"index"`

	// PointsDelta is zero for operations that do not touch the balance.
	PointsDelta int64
	Note        string
}
