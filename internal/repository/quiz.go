package repository

import (
	"context"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type QuizHistoryFilter struct {
	UserID string

	// Sent selects peer quizzes the user graded, Received the ones a friend
	// graded for them. Both false means both directions.
	Sent     bool
	Received bool

	Offset int
	Limit  int
}

type QuizRepository interface {
	Create(ctx context.Context, data *entity.Quiz) error
	ExistsOnDay(ctx context.Context, userID, day string) (bool, error)
	GetListByUserRange(ctx context.Context, userID, fromDay, toDay string) ([]entity.Quiz, error)
	GetHistory(ctx context.Context, filter QuizHistoryFilter) ([]entity.Quiz, error)
}

type quizRepository struct{}

func NewQuizRepository() *quizRepository {
	return &quizRepository{}
}

// Create appends a quiz record. Two unique indexes turn a duplicate into
// ErrAlreadyExists instead of a second credit: the client idempotency key
// when the record carries one, and the (user_id, skip_day) pair for skip
// quizzes.
func (r *quizRepository) Create(ctx context.Context, data *entity.Quiz) error {
	var conflict []clause.Column
	switch {
	case data.SkipDay.Valid:
		conflict = []clause.Column{{Name: "user_id"}, {Name: "skip_day"}}
	case data.RequestID.Valid:
		conflict = []clause.Column{{Name: "request_id"}}
	default:
		return xcontext.DB(ctx).Create(data).Error
	}

	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   conflict,
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

func (r *quizRepository) ExistsOnDay(ctx context.Context, userID, day string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Quiz{}).
		Where("user_id=? AND day=?", userID, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *quizRepository) GetListByUserRange(
	ctx context.Context, userID, fromDay, toDay string,
) ([]entity.Quiz, error) {
	var result []entity.Quiz
	err := xcontext.DB(ctx).
		Where("user_id=? AND day >= ? AND day < ?", userID, fromDay, toDay).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *quizRepository) GetHistory(
	ctx context.Context, filter QuizHistoryFilter,
) ([]entity.Quiz, error) {
	tx := xcontext.DB(ctx).Model(&entity.Quiz{})

	sent := "user_id=? AND role=? AND friend_id IS NOT NULL"
	received := "friend_id=? AND role=?"
	switch {
	case filter.Sent && !filter.Received:
		tx = tx.Where(sent, filter.UserID, entity.QuizRolePeer)
	case filter.Received && !filter.Sent:
		tx = tx.Where(received, filter.UserID, entity.QuizRolePeer)
	default:
		tx = tx.Where(
			"("+sent+") OR ("+received+")",
			filter.UserID, entity.QuizRolePeer, filter.UserID, entity.QuizRolePeer,
		)
	}

	var result []entity.Quiz
	err := tx.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
