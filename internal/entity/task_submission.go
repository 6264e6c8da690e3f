package entity

import (
	"time"

	"github.com/famquest/backend/pkg/enum"
)

type TaskStatus string

var (
	TaskPending  = enum.New(TaskStatus("pending"))
	TaskApproved = enum.New(TaskStatus("approved"))
	TaskRejected = enum.New(TaskStatus("rejected"))
)

type TaskSubmission struct {
	Base

	UserID int64
	User   User `gorm:"foreignKey:UserID"`

	Type string

	// Points is the unit value snapshotted from the catalog at submit time.
	// The award at approval is Points*Count, never re-read from the catalog.
	Points int64
	Count  int

	EvidencePath string
	Comment      string

	Status          TaskStatus `gorm:"index"`
	ReviewerID      int64
	ReviewedAt      time.Time
	RejectionReason string
}
