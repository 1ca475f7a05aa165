package entity

type User struct {
	Base

	// Identity is the stable external account handle supplied by the caller's
	// transport. It never changes after the user is created.
	Identity string `gorm:"unique"`

	Name      string
	AvatarURL string

	// Score never goes below zero. Every mutation must be an atomic SQL
	// update with the floor applied in the statement, not an overwrite of a
	// value computed in the application.
	Score int64

	TotalDays       int
	ConsecutiveDays int

	SkipCardCount int
	SkipQuizCount int

	LastWeekScore int64

	// LegacyFriends is the old embedded representation of friendships. New
	// code never writes it; the friends migration drains it into the
	// friendships table.
	LegacyFriends Array[string] `gorm:"type:text"`
}
