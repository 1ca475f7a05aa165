package model

import (
	"time"

	"github.com/reciteclub/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Score:     user.Score,
		Progress: Progress{
			TotalDays:       user.TotalDays,
			ConsecutiveDays: user.ConsecutiveDays,
		},
		SkipCardCount: user.SkipCardCount,
		SkipQuizCount: user.SkipQuizCount,
		LastWeekScore: user.LastWeekScore,
	}
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

func ConvertFriend(user *entity.User) Friend {
	if user == nil {
		return Friend{}
	}

	return Friend{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Score:     user.Score,
		Progress: Progress{
			TotalDays:       user.TotalDays,
			ConsecutiveDays: user.ConsecutiveDays,
		},
	}
}

func ConvertWeeklyReport(report *entity.WeeklyReport) WeeklyReport {
	if report == nil {
		return WeeklyReport{}
	}

	return WeeklyReport{
		WeekStart:   report.WeekStart,
		WeekEnd:     report.WeekEnd,
		CheckinDays: report.CheckinDays,
		QuizCount:   report.QuizCount,
		TotalScore:  report.TotalScore,
	}
}
