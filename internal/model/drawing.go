package model

import "time"

type CreateDrawingRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Prize           string    `json:"prize"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	MinParticipants int       `json:"min_participants"`
	MaxParticipants int       `json:"max_participants"`
	EntryCost       int64     `json:"entry_cost"`
	RequiredBadges  []string  `json:"required_badges"`
}

type CreateDrawingResponse struct {
	ID int64 `json:"id"`
}

type JoinDrawingRequest struct {
	DrawingID int64 `json:"drawing_id"`
}

type JoinDrawingResponse struct {
	TicketNumber int `json:"ticket_number"`
}

type DrawWinnersRequest struct {
	DrawingID int64 `json:"drawing_id"`
}

type DrawWinnersResponse struct {
	Cancelled bool          `json:"cancelled"`
	Winners   map[int]int64 `json:"winners"`
}

type GetDrawingRequest struct {
	ID int64 `form:"id" json:"id"`
}

type GetDrawingResponse struct {
	Drawing        Drawing `json:"drawing"`
	CanParticipate bool    `json:"can_participate"`
}

type GetActiveDrawingsRequest struct{}

type GetActiveDrawingsResponse struct {
	Drawings []Drawing `json:"drawings"`
}

type GetFinishedDrawingsRequest struct {
	Limit int `form:"limit" json:"limit"`
}

type GetFinishedDrawingsResponse struct {
	Drawings []Drawing `json:"drawings"`
}

type GetMyWinsRequest struct{}

type GetMyWinsResponse struct {
	Wins []DrawingWin `json:"wins"`
}

type Drawing struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Prize           string        `json:"prize"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	Status          string        `json:"status"`
	MinParticipants int           `json:"min_participants"`
	MaxParticipants int           `json:"max_participants"`
	EntryCost       int64         `json:"entry_cost"`
	RequiredBadges  []string      `json:"required_badges"`
	Participants    int           `json:"participants"`
	Winners         map[int]int64 `json:"winners,omitempty"`
}

type DrawingWin struct {
	DrawingID    int64  `json:"drawing_id"`
	TicketNumber int    `json:"ticket_number"`
	WonPlace     int    `json:"won_place"`
	JoinedAt     string `json:"joined_at"`
}
