package model

type CheckinRequest struct{}

type CheckinResponse struct {
	ConsecutiveDays int   `json:"consecutive_days"`
	TotalDays       int   `json:"total_days"`
	NewScore        int64 `json:"new_score"`
}

type UseSkipCardRequest struct{}

type UseSkipCardResponse struct {
	SkipCardCount   int   `json:"skip_card_count"`
	ConsecutiveDays int   `json:"consecutive_days"`
	TotalDays       int   `json:"total_days"`
	NewScore        int64 `json:"new_score"`
}
