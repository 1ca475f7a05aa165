package entity

import (
	"database/sql"

	"github.com/reciteclub/backend/pkg/enum"
)

type QuizRole string

var (
	// QuizRoleSelf grades the acting user's own recitation.
	QuizRoleSelf = enum.New(QuizRole("self"))
	// QuizRolePeer means the acting user graded a friend; the score goes to
	// the friend.
	QuizRolePeer = enum.New(QuizRole("peer"))
)

// Quiz is an append-only record of one graded recitation. Records are never
// updated after creation.
type Quiz struct {
	Base

	UserID string `gorm:"index;uniqueIndex:idx_quizzes_user_skip_day"`
	User   User   `gorm:"foreignKey:UserID"`

	// FriendID is set only for peer-graded quizzes.
	FriendID sql.NullString `gorm:"index"`

	CorrectCount int
	WrongCount   int

	Role QuizRole

	// Day in dateutil.DayLayout, used by the skip-quiz daily gate and the
	// weekly settlement range scan.
	Day string `gorm:"index"`

	IsSkip bool

	// SkipDay mirrors Day but is set only on skip quizzes. Its unique index
	// with the user enforces at most one skip per day in the store itself;
	// normal quizzes leave it NULL and stay unrestricted.
	SkipDay sql.NullString `gorm:"uniqueIndex:idx_quizzes_user_skip_day"`

	// RequestID is an optional client-supplied idempotency key. When set, the
	// unique index rejects a retried submission instead of double-crediting.
	RequestID sql.NullString `gorm:"uniqueIndex"`
}
