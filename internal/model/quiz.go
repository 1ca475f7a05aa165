package model

type RecordQuizRequest struct {
	FriendID     string `json:"friend_id"`
	CorrectCount int    `json:"correct_count"`
	WrongCount   int    `json:"wrong_count"`
	Role         string `json:"role"`

	// RequestID is an optional client-generated idempotency key. Clients that
	// retry after a timeout should set it to avoid double credits.
	RequestID string `json:"request_id"`
}

type RecordQuizResponse struct {
	QuizID     string `json:"quiz_id"`
	ScoreDelta int64  `json:"score_delta"`
	NewScore   int64  `json:"new_score"`
}

type UseSkipQuizRequest struct{}

type UseSkipQuizResponse struct {
	SkipQuizCount int   `json:"skip_quiz_count"`
	ScoreDelta    int64 `json:"score_delta"`
	NewScore      int64 `json:"new_score"`
}

type QuizRecord struct {
	ID           string    `json:"id"`
	User         ShortUser `json:"user"`
	Friend       ShortUser `json:"friend"`
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
	Role         string    `json:"role"`
	IsSkip       bool      `json:"is_skip"`
	Day          string    `json:"day"`
}

type GetQuizHistoryRequest struct {
	// Type is one of all, sent, received.
	Type   string `json:"type" form:"type"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetQuizHistoryResponse struct {
	Records []QuizRecord `json:"records"`
}
