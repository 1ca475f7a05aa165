package repository

import (
	"context"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CheckinRepository interface {
	Create(ctx context.Context, data *entity.Checkin) error
	ExistsOnDay(ctx context.Context, userID, day string) (bool, error)
	CountByUserRange(ctx context.Context, userID, fromDay, toDay string, includeSkip bool) (int64, error)
}

type checkinRepository struct{}

func NewCheckinRepository() *checkinRepository {
	return &checkinRepository{}
}

// Create appends a check-in. The conditional insert piggybacks on the unique
// (user_id, day) index: a conflicting row is not written and ErrAlreadyExists
// is returned, which makes the one-per-day invariant hold under concurrent
// calls without a separate read.
func (r *checkinRepository) Create(ctx context.Context, data *entity.Checkin) error {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrAlreadyExists
	}

	return nil
}

func (r *checkinRepository) ExistsOnDay(ctx context.Context, userID, day string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Checkin{}).
		Where("user_id=? AND day=?", userID, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *checkinRepository) CountByUserRange(
	ctx context.Context, userID, fromDay, toDay string, includeSkip bool,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Checkin{}).
		Where("user_id=? AND day >= ? AND day < ?", userID, fromDay, toDay)

	if !includeSkip {
		tx = tx.Where("type=?", entity.CheckinTypeNormal)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
