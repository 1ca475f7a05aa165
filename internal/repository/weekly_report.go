package repository

import (
	"context"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type WeeklyReportRepository interface {
	Create(ctx context.Context, data *entity.WeeklyReport) error
	GetListByUser(ctx context.Context, userID string, limit int) ([]entity.WeeklyReport, error)
}

type weeklyReportRepository struct{}

func NewWeeklyReportRepository() *weeklyReportRepository {
	return &weeklyReportRepository{}
}

// Create appends a settlement report. The unique (user_id, week_start) index
// rejects a second report for an already-settled week; callers treat
// ErrAlreadyExists as "skip this user".
func (r *weeklyReportRepository) Create(ctx context.Context, data *entity.WeeklyReport) error {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
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

func (r *weeklyReportRepository) GetListByUser(
	ctx context.Context, userID string, limit int,
) ([]entity.WeeklyReport, error) {
	var result []entity.WeeklyReport
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("week_start DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
