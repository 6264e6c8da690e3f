package entity

import (
	"time"

	"github.com/famquest/backend/pkg/enum"
)

type DrawingStatus string

var (
	DrawingAnnounced = enum.New(DrawingStatus("announced"))
	DrawingActive    = enum.New(DrawingStatus("active"))
	DrawingFinished  = enum.New(DrawingStatus("finished"))
	DrawingCancelled = enum.New(DrawingStatus("cancelled"))
)

type Drawing struct {
	Base

	Name        string `gorm:"unique"`
	Description string
	Prize       string

	StartTime time.Time
	EndTime   time.Time

	Status DrawingStatus `gorm:"index"`

	MinParticipants int
	MaxParticipants int
	EntryCost       int64

	RequiredBadges Array[string]

	// Participants keeps join order. TicketNumbers maps a participant to its
	// 1-based, gap-free ticket. Winners is empty until the drawing finishes.
	Participants  Array[int64]
	TicketNumbers Dict[int64, int]
	Winners       Dict[int, int64]
}

// DrawingParticipation is the per-user participation row backing win and
// participation statistics.
type DrawingParticipation struct {
	CreatedAt time.Time

	DrawingID int64   `gorm:"primaryKey"`
	Drawing   Drawing `gorm:"foreignKey:DrawingID"`

	UserID int64 `gorm:"primaryKey"`
	User   User  `gorm:"foreignKey:UserID"`

	TicketNumber int
	WonPlace     int
}
