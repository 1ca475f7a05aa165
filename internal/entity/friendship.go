package entity

import (
	"database/sql"
	"time"

	"github.com/reciteclub/backend/pkg/enum"
)

type FriendshipStatus string

var (
	FriendshipPending  = enum.New(FriendshipStatus("pending"))
	FriendshipAccepted = enum.New(FriendshipStatus("accepted"))
	FriendshipRejected = enum.New(FriendshipStatus("rejected"))
)

// Friendship is one directional edge between two users. An accepted
// friendship is represented by a mirrored pair of edges; every relationship
// query must treat the pair as a single undirected fact.
//
// The unique index over the ordered (user_id, friend_id) pair means a pair of
// users owns at most one edge per direction, whatever its status. A rejected
// edge is reopened in place by a later request instead of inserting a second
// row.
type Friendship struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_friendships_pair"`
	User   User   `gorm:"foreignKey:UserID"`

	FriendID string `gorm:"uniqueIndex:idx_friendships_pair;index"`
	Friend   User   `gorm:"foreignKey:FriendID"`

	Status FriendshipStatus `gorm:"index"`

	Message string

	RequestedAt time.Time
	AcceptedAt  sql.NullTime
	RejectedAt  sql.NullTime
}
