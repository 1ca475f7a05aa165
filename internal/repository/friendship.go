package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendshipRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Friendship, error)
	GetBetween(ctx context.Context, userID, friendID string,
		statuses ...entity.FriendshipStatus) ([]entity.Friendship, error)
	CreatePending(ctx context.Context, data *entity.Friendship) error
	UpdateStatus(ctx context.Context, id string,
		from, to entity.FriendshipStatus, at time.Time) error
	UpsertAccepted(ctx context.Context, data *entity.Friendship) error
	GetListByUser(ctx context.Context, userID string,
		status entity.FriendshipStatus) ([]entity.Friendship, error)
	GetIncomingPending(ctx context.Context, userID string) ([]entity.Friendship, error)
	DeleteAcceptedBetween(ctx context.Context, userID, friendID string) error
}

type friendshipRepository struct{}

func NewFriendshipRepository() *friendshipRepository {
	return &friendshipRepository{}
}

func (r *friendshipRepository) GetByID(ctx context.Context, id string) (*entity.Friendship, error) {
	var result entity.Friendship
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetBetween returns the edges between two users in either direction,
// optionally restricted to the given statuses.
func (r *friendshipRepository) GetBetween(
	ctx context.Context, userID, friendID string, statuses ...entity.FriendshipStatus,
) ([]entity.Friendship, error) {
	tx := xcontext.DB(ctx).
		Where("(user_id=? AND friend_id=?) OR (user_id=? AND friend_id=?)",
			userID, friendID, friendID, userID)

	if len(statuses) > 0 {
		tx = tx.Where("status IN (?)", statuses)
	}

	var result []entity.Friendship
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// CreatePending creates a pending edge for the ordered (user_id, friend_id)
// pair. The unique pair index arbitrates concurrent requests: if an edge
// already exists in this direction, the insert writes nothing and the stored
// row decides what happens next. Only a rejected edge is reopened in place;
// any other status surfaces ErrAlreadyExists.
func (r *friendshipRepository) CreatePending(ctx context.Context, data *entity.Friendship) error {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoNothing: true,
		}).
		Create(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 1 {
		return nil
	}

	reopen := xcontext.DB(ctx).
		Model(&entity.Friendship{}).
		Where("user_id=? AND friend_id=? AND status=?",
			data.UserID, data.FriendID, entity.FriendshipRejected).
		Updates(map[string]any{
			"status":       entity.FriendshipPending,
			"message":      data.Message,
			"requested_at": data.RequestedAt,
			"accepted_at":  sql.NullTime{},
			"rejected_at":  sql.NullTime{},
		})

	if reopen.Error != nil {
		return reopen.Error
	}

	if reopen.RowsAffected == 0 {
		return ErrAlreadyExists
	}

	// Report the reopened edge to the caller.
	return xcontext.DB(ctx).
		Take(data, "user_id=? AND friend_id=?", data.UserID, data.FriendID).Error
}

// UpdateStatus transitions an edge conditionally on its current status, so a
// lost race shows up as gorm.ErrRecordNotFound instead of a silent overwrite.
func (r *friendshipRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.FriendshipStatus, at time.Time,
) error {
	updateMap := map[string]any{"status": to}
	switch to {
	case entity.FriendshipAccepted:
		updateMap["accepted_at"] = sql.NullTime{Time: at, Valid: true}
	case entity.FriendshipRejected:
		updateMap["rejected_at"] = sql.NullTime{Time: at, Valid: true}
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Friendship{}).
		Where("id=? AND status=?", id, from).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpsertAccepted makes sure an accepted edge exists in the direction of data,
// whatever the pair's previous state was. It backs the accept mirror write,
// the quiz auto-friending and the legacy migration.
func (r *friendshipRepository) UpsertAccepted(ctx context.Context, data *entity.Friendship) error {
	data.Status = entity.FriendshipAccepted
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":      entity.FriendshipAccepted,
				"accepted_at": data.AcceptedAt,
			}),
		}).
		Create(data).Error
}

func (r *friendshipRepository) GetListByUser(
	ctx context.Context, userID string, status entity.FriendshipStatus,
) ([]entity.Friendship, error) {
	var result []entity.Friendship
	err := xcontext.DB(ctx).
		Where("(user_id=? OR friend_id=?) AND status=?", userID, userID, status).
		Order("accepted_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *friendshipRepository) GetIncomingPending(
	ctx context.Context, userID string,
) ([]entity.Friendship, error) {
	var result []entity.Friendship
	err := xcontext.DB(ctx).
		Where("friend_id=? AND status=?", userID, entity.FriendshipPending).
		Order("requested_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteAcceptedBetween removes the accepted edges of a pair in both
// directions with a single statement, so an interrupted delete can never
// leave a one-directional accepted edge behind.
//
// The delete is unscoped on purpose: a soft-deleted edge would still occupy
// the unique pair index and block the pair from ever becoming friends again,
// while staying invisible to every relationship query.
func (r *friendshipRepository) DeleteAcceptedBetween(
	ctx context.Context, userID, friendID string,
) error {
	return xcontext.DB(ctx).
		Unscoped().
		Where("((user_id=? AND friend_id=?) OR (user_id=? AND friend_id=?)) AND status=?",
			userID, friendID, friendID, userID, entity.FriendshipAccepted).
		Delete(&entity.Friendship{}).Error
}
