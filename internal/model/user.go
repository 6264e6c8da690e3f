package model

type GetUserRequest struct {
	UserID int64 `form:"user_id" json:"user_id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type SetNameRequest struct {
	Name string `json:"name"`
}

type SetNameResponse struct{}

type SetBadgeRequest struct {
	UserID int64  `json:"user_id"`
	Badge  string `json:"badge"`
	Grant  bool   `json:"grant"`
	Note   string `json:"note"`
}

type SetBadgeResponse struct{}

type SetEmojiRequest struct {
	UserID int64  `json:"user_id"`
	Emoji  string `json:"emoji"`
	Note   string `json:"note"`
}

type SetEmojiResponse struct{}

type BanUserRequest struct {
	UserID int64  `json:"user_id"`
	Banned bool   `json:"banned"`
	Reason string `json:"reason"`
}

type BanUserResponse struct{}

type SearchUsersRequest struct {
	Query string `form:"query" json:"query"`
	Limit int    `form:"limit" json:"limit"`
}

type SearchUsersResponse struct {
	Users []User `json:"users"`
}

type GetUserStatsRequest struct {
	UserID int64 `form:"user_id" json:"user_id"`
}

type GetUserStatsResponse struct {
	Stats UserStats `json:"stats"`
}

type GetTopUsersRequest struct {
	Limit int `form:"limit" json:"limit"`
}

type GetTopUsersResponse struct {
	Users []User `json:"users"`
}

type UserStats struct {
	Balance        int64  `json:"balance"`
	TasksPending   int64  `json:"tasks_pending"`
	TasksApproved  int64  `json:"tasks_approved"`
	TasksRejected  int64  `json:"tasks_rejected"`
	DrawingsJoined int64  `json:"drawings_joined"`
	DrawingsWon    int    `json:"drawings_won"`
	LastDrawingWin string `json:"last_drawing_win,omitempty"`
}

type User struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	CustomEmoji string   `json:"custom_emoji,omitempty"`
	Balance     int64    `json:"balance"`
	Badges      []string `json:"badges"`
	DailyTotal  int      `json:"daily_total"`
	DrawingsWon int      `json:"drawings_won"`
	IsBanned    bool     `json:"is_banned"`
	BanReason   string   `json:"ban_reason,omitempty"`
}
