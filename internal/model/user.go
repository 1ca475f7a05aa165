package model

type Progress struct {
	TotalDays       int `json:"total_days"`
	ConsecutiveDays int `json:"consecutive_days"`
}

type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AvatarURL     string   `json:"avatar_url"`
	Score         int64    `json:"score"`
	Progress      Progress `json:"progress"`
	SkipCardCount int      `json:"skip_card_count"`
	SkipQuizCount int      `json:"skip_quiz_count"`
	LastWeekScore int64    `json:"last_week_score"`
}

type ShortUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// AccessToken is the object embedded into the signed access token.
type AccessToken struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
}

type ResolveUserRequest struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type ResolveUserResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type GetMeRequest struct{}

type GetMeResponse User

type GetUserRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type GetUserResponse ShortUser
