package model

type AdjustPointsRequest struct {
	UserID int64  `json:"user_id"`
	Delta  int64  `json:"delta"`
	Note   string `json:"note"`
}

type AdjustPointsResponse struct {
	Balance int64 `json:"balance"`
}

type GetBalanceRequest struct {
	UserID int64 `form:"user_id" json:"user_id"`
}

type GetBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type GetPointHistoryRequest struct {
	UserID int64 `form:"user_id" json:"user_id"`
	Limit  int   `form:"limit" json:"limit"`
}

type GetPointHistoryResponse struct {
	Operations []AdminOperation `json:"operations"`
}

type AdminOperation struct {
	ID          int64  `json:"id"`
	AdminID     int64  `json:"admin_id"`
	UserID      int64  `json:"user_id"`
	Kind        string `json:"kind"`
	PointsDelta int64  `json:"points_delta"`
	Note        string `json:"note"`
	CreatedAt   string `json:"created_at"`
}
