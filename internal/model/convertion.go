package model

import (
	"time"

	"github.com/famquest/backend/config"
	"github.com/famquest/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:          user.ID,
		Name:        user.Name,
		CustomEmoji: user.CustomEmoji,
		Balance:     user.Balance,
		Badges:      user.Badges,
		DailyTotal:  user.DailyTotal,
		DrawingsWon: user.DrawingsWon,
		IsBanned:    user.IsBanned,
		BanReason:   user.BanReason,
	}
}

func ConvertTaskSubmission(task *entity.TaskSubmission) TaskSubmission {
	if task == nil {
		return TaskSubmission{}
	}

	converted := TaskSubmission{
		ID:              task.ID,
		UserID:          task.UserID,
		Type:            task.Type,
		Points:          task.Points,
		Count:           task.Count,
		EvidencePath:    task.EvidencePath,
		Comment:         task.Comment,
		Status:          string(task.Status),
		ReviewerID:      task.ReviewerID,
		RejectionReason: task.RejectionReason,
		CreatedAt:       task.CreatedAt.Format(DefaultTimeLayout),
	}

	if !task.ReviewedAt.IsZero() {
		converted.ReviewedAt = task.ReviewedAt.Format(DefaultTimeLayout)
	}

	return converted
}

func ConvertDrawing(drawing *entity.Drawing) Drawing {
	if drawing == nil {
		return Drawing{}
	}

	return Drawing{
		ID:              drawing.ID,
		Name:            drawing.Name,
		Description:     drawing.Description,
		Prize:           drawing.Prize,
		StartTime:       drawing.StartTime.Format(DefaultTimeLayout),
		EndTime:         drawing.EndTime.Format(DefaultTimeLayout),
		Status:          string(drawing.Status),
		MinParticipants: drawing.MinParticipants,
		MaxParticipants: drawing.MaxParticipants,
		EntryCost:       drawing.EntryCost,
		RequiredBadges:  drawing.RequiredBadges,
		Participants:    len(drawing.Participants),
		Winners:         drawing.Winners,
	}
}

func ConvertAdminOperation(op *entity.AdminOperation) AdminOperation {
	if op == nil {
		return AdminOperation{}
	}

	return AdminOperation{
		ID:          op.ID,
		AdminID:     op.AdminID,
		UserID:      op.UserID,
		Kind:        string(op.Kind),
		PointsDelta: op.PointsDelta,
		Note:        op.Note,
		CreatedAt:   op.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertTaskType(cfg config.TaskTypeConfigs) TaskType {
	return TaskType{
		Name:             cfg.Name,
		Emoji:            cfg.Emoji,
		Description:      cfg.Description,
		Points:           cfg.Points,
		MaxPerSubmission: cfg.MaxPerSubmission,
		MaxPerDay:        cfg.MaxPerDay,
		RequiresEvidence: cfg.RequiresEvidence,
	}
}
