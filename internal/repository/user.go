package repository

import (
	"context"
	"errors"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByIdentity(ctx context.Context, identity string) (*entity.User, error)
	GetList(ctx context.Context, afterID string, limit int) ([]entity.User, error)
	UpdateProfile(ctx context.Context, id string, data *entity.User) error
	ApplyScoreDelta(ctx context.Context, id string, delta int64) error
	ApplyWeeklyScore(ctx context.Context, id string, delta int64) error
	UpdateCheckinProgress(ctx context.Context, id string, continued, credit bool) error
	DecreaseSkipCard(ctx context.Context, id string) error
	DecreaseSkipQuiz(ctx context.Context, id string) error
	ClearLegacyFriends(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.User
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByIdentity(ctx context.Context, identity string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "identity=?", identity).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList pages through users in a stable id order. It is the paging
// primitive of the settlement and migration batch jobs; they must never load
// the full user set at once.
func (r *userRepository) GetList(ctx context.Context, afterID string, limit int) ([]entity.User, error) {
	tx := xcontext.DB(ctx).Order("id ASC").Limit(limit)
	if afterID != "" {
		tx = tx.Where("id > ?", afterID)
	}

	var result []entity.User
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.AvatarURL != "" {
		updateMap["avatar_url"] = data.AvatarURL
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

// ApplyScoreDelta adds delta to the user's score with the floor-0 clamp
// applied inside the statement, so concurrent deltas never interleave into a
// negative or lost value.
func (r *userRepository) ApplyScoreDelta(ctx context.Context, id string, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("score", gorm.Expr("CASE WHEN score + ? < 0 THEN 0 ELSE score + ? END", delta, delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) ApplyWeeklyScore(ctx context.Context, id string, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{
			"score":           gorm.Expr("CASE WHEN score + ? < 0 THEN 0 ELSE score + ? END", delta, delta),
			"last_week_score": delta,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateCheckinProgress advances total days and the streak counter. The
// streak either continues from its stored value or resets to 1; credit adds
// the flat daily score.
func (r *userRepository) UpdateCheckinProgress(
	ctx context.Context, id string, continued, credit bool,
) error {
	updateMap := map[string]any{
		"total_days":       gorm.Expr("total_days+1"),
		"consecutive_days": gorm.Expr("consecutive_days+1"),
	}

	if !continued {
		updateMap["consecutive_days"] = 1
	}

	if credit {
		updateMap["score"] = gorm.Expr("score+1")
	}

	tx := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) DecreaseSkipCard(ctx context.Context, id string) error {
	return r.decreaseCounter(ctx, id, "skip_card_count")
}

func (r *userRepository) DecreaseSkipQuiz(ctx context.Context, id string) error {
	return r.decreaseCounter(ctx, id, "skip_quiz_count")
}

// decreaseCounter debits a privilege counter. The condition in the statement
// keeps the counter at or above zero under concurrent debits; zero affected
// rows means the privilege is exhausted (or the user does not exist).
func (r *userRepository) decreaseCounter(ctx context.Context, id, column string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND "+column+" > 0", id).
		Update(column, gorm.Expr(column+"-1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) ClearLegacyFriends(ctx context.Context, id string) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("legacy_friends", entity.Array[string]{}).Error
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
