package model

type SubmitTaskRequest struct {
	Type         string `json:"type"`
	Count        int    `json:"count"`
	EvidencePath string `json:"evidence_path"`
	Comment      string `json:"comment"`
}

type SubmitTaskResponse struct {
	ID int64 `json:"id"`
}

type ReviewTaskRequest struct {
	ID     int64  `json:"id"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type ReviewTaskResponse struct{}

type GetTaskRequest struct {
	ID int64 `form:"id" json:"id"`
}

type GetTaskResponse struct {
	Task TaskSubmission `json:"task"`
}

type GetPendingTasksRequest struct {
	Offset int `form:"offset" json:"offset"`
	Limit  int `form:"limit" json:"limit"`
}

type GetPendingTasksResponse struct {
	Tasks []TaskSubmission `json:"tasks"`
}

type GetMyTasksRequest struct {
	Limit int `form:"limit" json:"limit"`
}

type GetMyTasksResponse struct {
	Tasks []TaskSubmission `json:"tasks"`
}

type GetTaskCatalogRequest struct{}

type GetTaskCatalogResponse struct {
	Types map[string]TaskType `json:"types"`
}

type TaskSubmission struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	Type            string `json:"type"`
	Points          int64  `json:"points"`
	Count           int    `json:"count"`
	EvidencePath    string `json:"evidence_path,omitempty"`
	Comment         string `json:"comment,omitempty"`
	Status          string `json:"status"`
	ReviewerID      int64  `json:"reviewer_id,omitempty"`
	ReviewedAt      string `json:"reviewed_at,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type TaskType struct {
	Name             string `json:"name"`
	Emoji            string `json:"emoji"`
	Description      string `json:"description"`
	Points           int64  `json:"points"`
	MaxPerSubmission int    `json:"max_per_submission"`
	MaxPerDay        int    `json:"max_per_day,omitempty"`
	RequiresEvidence bool   `json:"requires_evidence"`
}
