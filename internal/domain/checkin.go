package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/dateutil"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CheckinDomain interface {
	Checkin(ctx context.Context, req *model.CheckinRequest) (*model.CheckinResponse, error)
	UseSkipCard(ctx context.Context, req *model.UseSkipCardRequest) (*model.UseSkipCardResponse, error)
}

type checkinDomain struct {
	checkinRepo repository.CheckinRepository
	userRepo    repository.UserRepository
}

func NewCheckinDomain(
	checkinRepo repository.CheckinRepository,
	userRepo repository.UserRepository,
) *checkinDomain {
	return &checkinDomain{checkinRepo: checkinRepo, userRepo: userRepo}
}

// Checkin records today's check-in, advances the streak and credits the daily
// score. The check-in row is written first; its unique (user_id, day) index is
// what guarantees at most one credit per day even under concurrent calls.
func (d *checkinDomain) Checkin(
	ctx context.Context, req *model.CheckinRequest,
) (*model.CheckinResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	now := time.Now()
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.checkinRepo.Create(ctx, &entity.Checkin{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: userID,
		Day:    dateutil.Day(now),
		Type:   entity.CheckinTypeNormal,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, errorx.New(errorx.AlreadyExists, "Already checked in today")
		}

		xcontext.Logger(ctx).Errorf("Cannot create checkin: %v", err)
		return nil, errorx.Unknown
	}

	continued, err := d.checkinRepo.ExistsOnDay(ctx, userID, dateutil.Day(now.AddDate(0, 0, -1)))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check yesterday checkin: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateCheckinProgress(ctx, userID, continued, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update checkin progress: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CheckinResponse{
		ConsecutiveDays: user.ConsecutiveDays,
		TotalDays:       user.TotalDays,
		NewScore:        user.Score,
	}, nil
}

// UseSkipCard consumes a skip card to cover today without a real check-in.
// Apart from the event kind and the debited card, the bookkeeping is the same
// as a real check-in, including the flat daily credit.
func (d *checkinDomain) UseSkipCard(
	ctx context.Context, req *model.UseSkipCardRequest,
) (*model.UseSkipCardResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	now := time.Now()
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.checkinRepo.Create(ctx, &entity.Checkin{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: userID,
		Day:    dateutil.Day(now),
		Type:   entity.CheckinTypeSkip,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, errorx.New(errorx.AlreadyExists, "Already checked in today")
		}

		xcontext.Logger(ctx).Errorf("Cannot create skip checkin: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.DecreaseSkipCard(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "No skip card available")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease skip card: %v", err)
		return nil, errorx.Unknown
	}

	continued, err := d.checkinRepo.ExistsOnDay(ctx, userID, dateutil.Day(now.AddDate(0, 0, -1)))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check yesterday checkin: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateCheckinProgress(ctx, userID, continued, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update checkin progress: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UseSkipCardResponse{
		SkipCardCount:   user.SkipCardCount,
		ConsecutiveDays: user.ConsecutiveDays,
		TotalDays:       user.TotalDays,
		NewScore:        user.Score,
	}, nil
}
