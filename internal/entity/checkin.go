package entity

import "github.com/reciteclub/backend/pkg/enum"

type CheckinType string

var (
	CheckinTypeNormal = enum.New(CheckinType("normal"))
	CheckinTypeSkip   = enum.New(CheckinType("skip"))
)

// Checkin is append-only. The unique index over (user_id, day) is the
// authority for the one-check-in-per-day invariant; application code relies on
// the conflict, never on a read-then-write check.
type Checkin struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_checkins_user_day"`
	User   User   `gorm:"foreignKey:UserID"`

	// Day is the timezone-normalized calendar day in dateutil.DayLayout.
	Day string `gorm:"uniqueIndex:idx_checkins_user_day"`

	Type CheckinType
}
