package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/dateutil"
	"github.com/reciteclub/backend/pkg/testutil"
	"github.com/reciteclub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_checkinDomain_Checkin(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	checkinDomain := NewCheckinDomain(
		repository.NewCheckinRepository(), repository.NewUserRepository())

	// First check-in of a fresh user starts the streak and credits one point.
	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := checkinDomain.Checkin(ctxUser1, &model.CheckinRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.ConsecutiveDays)
	require.Equal(t, 1, resp.TotalDays)
	require.Equal(t, int64(1), resp.NewScore)

	// The second check-in on the same day is refused and changes nothing.
	_, err = checkinDomain.Checkin(ctxUser1, &model.CheckinRequest{})
	require.Error(t, err)
	require.Equal(t, "Already checked in today", err.Error())

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, user.TotalDays)
	require.Equal(t, int64(1), user.Score)
}

func Test_checkinDomain_Checkin_streak(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	checkinRepo := repository.NewCheckinRepository()
	checkinDomain := NewCheckinDomain(checkinRepo, repository.NewUserRepository())

	// User2 checked in yesterday with a running streak of 5.
	yesterday := dateutil.Day(time.Now().AddDate(0, 0, -1))
	err := checkinRepo.Create(ctx, &entity.Checkin{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: testutil.User2.ID,
		Day:    yesterday,
		Type:   entity.CheckinTypeNormal,
	})
	require.NoError(t, err)

	err = xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User2.ID).
		Updates(map[string]any{"consecutive_days": 5, "total_days": 5}).Error
	require.NoError(t, err)

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := checkinDomain.Checkin(ctxUser2, &model.CheckinRequest{})
	require.NoError(t, err)
	require.Equal(t, 6, resp.ConsecutiveDays)
	require.Equal(t, 6, resp.TotalDays)

	// User3 also had a streak of 5 but missed yesterday, so it resets.
	err = xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User3.ID).
		Updates(map[string]any{"consecutive_days": 5, "total_days": 5}).Error
	require.NoError(t, err)

	ctxUser3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	resp, err = checkinDomain.Checkin(ctxUser3, &model.CheckinRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.ConsecutiveDays)
	require.Equal(t, 6, resp.TotalDays)
}

func Test_checkinDomain_UseSkipCard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	checkinDomain := NewCheckinDomain(
		repository.NewCheckinRepository(), repository.NewUserRepository())

	// No skip card available.
	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := checkinDomain.UseSkipCard(ctxUser1, &model.UseSkipCardRequest{})
	require.Error(t, err)
	require.Equal(t, "No skip card available", err.Error())

	// A skip card covers the day with the same bookkeeping as a real
	// check-in, daily credit included.
	err = xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User1.ID).
		Update("skip_card_count", 2).Error
	require.NoError(t, err)

	resp, err := checkinDomain.UseSkipCard(ctxUser1, &model.UseSkipCardRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.SkipCardCount)
	require.Equal(t, 1, resp.ConsecutiveDays)
	require.Equal(t, 1, resp.TotalDays)
	require.Equal(t, int64(1), resp.NewScore)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), user.Score)

	// The day is already covered, so neither a second skip card nor a real
	// check-in goes through. The remaining card is not consumed.
	_, err = checkinDomain.UseSkipCard(ctxUser1, &model.UseSkipCardRequest{})
	require.Error(t, err)
	require.Equal(t, "Already checked in today", err.Error())

	_, err = checkinDomain.Checkin(ctxUser1, &model.CheckinRequest{})
	require.Error(t, err)
	require.Equal(t, "Already checked in today", err.Error())

	user, err = repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, user.SkipCardCount)
}
