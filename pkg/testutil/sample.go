package testutil

import (
	"context"
	"time"

	"github.com/famquest/backend/internal/entity"
	"github.com/famquest/backend/internal/repository"
	"github.com/famquest/backend/pkg/idutil"
)

// SampleUser creates a user with the given id and balance.
func SampleUser(ctx context.Context, id, balance int64) *entity.User {
	user := &entity.User{
		Base:        entity.Base{ID: id},
		Name:        "user",
		Balance:     balance,
		Badges:      entity.Array[string]{},
		DailyByType: entity.Dict[string, int]{},
	}

	if err := repository.NewUserRepository().Create(ctx, user); err != nil {
		panic(err)
	}

	return user
}

// SampleActiveDrawing creates an active drawing whose window contains now.
func SampleActiveDrawing(ctx context.Context, init entity.Drawing) *entity.Drawing {
	now := time.Now()

	drawing := &init
	if drawing.ID == 0 {
		drawing.ID = idutil.NextID()
	}
	if drawing.Name == "" {
		drawing.Name = "test drawing"
	}
	if drawing.Status == "" {
		drawing.Status = entity.DrawingActive
	}
	if drawing.StartTime.IsZero() {
		drawing.StartTime = now.Add(-time.Hour)
	}
	if drawing.EndTime.IsZero() {
		drawing.EndTime = now.Add(time.Hour)
	}
	if drawing.MinParticipants == 0 {
		drawing.MinParticipants = 1
	}
	if drawing.MaxParticipants == 0 {
		drawing.MaxParticipants = 100
	}
	if drawing.Participants == nil {
		drawing.Participants = entity.Array[int64]{}
	}
	if drawing.TicketNumbers == nil {
		drawing.TicketNumbers = entity.Dict[int64, int]{}
	}
	if drawing.Winners == nil {
		drawing.Winners = entity.Dict[int, int64]{}
	}

	if err := repository.NewDrawingRepository().Create(ctx, drawing); err != nil {
		panic(err)
	}

	return drawing
}
