package entity

// WeeklyReport is produced only by the weekly settlement job, one per user per
// settled week. The unique index over (user_id, week_start) makes re-running a
// settled week a no-op instead of a double credit.
type WeeklyReport struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_weekly_reports_user_week"`
	User   User   `gorm:"foreignKey:UserID"`

	// WeekStart is the Monday of the settled week in dateutil.DayLayout.
	// WeekEnd is the Monday after it (exclusive).
	WeekStart string `gorm:"uniqueIndex:idx_weekly_reports_user_week"`
	WeekEnd   string

	CheckinDays int
	QuizCount   int

	// TotalScore is the signed score delta this settlement applied to the
	// user, before the global floor-0 clamp.
	TotalScore int64
}
