package model

type LeaderboardEntry struct {
	User  ShortUser `json:"user"`
	Score int64     `json:"score"`
	Rank  uint64    `json:"rank"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`

	// MyRank is the caller's 1-based position among their friends.
	MyRank uint64 `json:"my_rank"`
}

type WeeklyReport struct {
	WeekStart   string `json:"week_start"`
	WeekEnd     string `json:"week_end"`
	CheckinDays int    `json:"checkin_days"`
	QuizCount   int    `json:"quiz_count"`
	TotalScore  int64  `json:"total_score"`
}

type GetWeeklyReportsRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetWeeklyReportsResponse struct {
	Reports []WeeklyReport `json:"reports"`
}
