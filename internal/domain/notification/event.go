package notification

import (
	"time"

	"github.com/famquest/backend/pkg/enum"
	"github.com/google/uuid"
)

type EventType string

var (
	TaskReviewed     = enum.New(EventType("task_reviewed"))
	DrawingJoined    = enum.New(EventType("drawing_joined"))
	DrawingFinished  = enum.New(EventType("drawing_finished"))
	DrawingCancelled = enum.New(EventType("drawing_cancelled"))
	DrawingWon       = enum.New(EventType("drawing_won"))
)

// Event is the payload handed to the notification collaborator. The chat
// transport renders it into a message; this package defines no wire format.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	UserID    int64          `json:"user_id"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func New(typ EventType, userID int64, data map[string]any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      typ,
		UserID:    userID,
		Data:      data,
		CreatedAt: time.Now(),
	}
}
