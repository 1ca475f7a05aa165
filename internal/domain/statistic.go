package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/xcontext"
	"github.com/reciteclub/backend/pkg/xredis"
)

type StatisticDomain interface {
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetWeeklyReports(ctx context.Context, req *model.GetWeeklyReportsRequest) (*model.GetWeeklyReportsResponse, error)
}

type statisticDomain struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	reportRepo     repository.WeeklyReportRepository
	redisClient    xredis.Client
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	reportRepo repository.WeeklyReportRepository,
	redisClient xredis.Client,
) *statisticDomain {
	return &statisticDomain{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		reportRepo:     reportRepo,
		redisClient:    redisClient,
	}
}

func leaderboardRedisKey(userID string) string {
	return fmt.Sprintf("leaderboard:%s", userID)
}

// GetLeaderboard ranks the caller and their friends by score. The scores are
// loaded into a per-caller redis sorted set so ranking and pagination come
// from ZREVRANGE and ZREVRANK rather than an in-application sort.
func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = cfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must be non-negative")
	}

	edges, err := d.friendshipRepo.GetListByUser(ctx, userID, entity.FriendshipAccepted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendships: %v", err)
		return nil, errorx.Unknown
	}

	memberIDs := []string{userID}
	seen := map[string]bool{userID: true}
	for _, edge := range edges {
		counterpart := edge.FriendID
		if counterpart == userID {
			counterpart = edge.UserID
		}

		if !seen[counterpart] {
			seen[counterpart] = true
			memberIDs = append(memberIDs, counterpart)
		}
	}

	users, err := d.userRepo.GetByIDs(ctx, memberIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard members: %v", err)
		return nil, errorx.Unknown
	}

	key := leaderboardRedisKey(userID)
	if err := d.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset leaderboard key: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
		err := d.redisClient.ZAdd(ctx, key, redis.Z{
			Score:  float64(users[i].Score),
			Member: users[i].ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load leaderboard member: %v", err)
			return nil, errorx.Unknown
		}
	}

	ranked, err := d.redisClient.ZRevRangeWithScores(ctx, key, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot range leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	leaderboard := []model.LeaderboardEntry{}
	for i, z := range ranked {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		leaderboard = append(leaderboard, model.LeaderboardEntry{
			User:  model.ConvertShortUser(userMap[member]),
			Score: int64(z.Score),
			Rank:  uint64(req.Offset + i + 1),
		})
	}

	myRank, err := d.redisClient.ZRevRank(ctx, key, userID)
	if err != nil && !errors.Is(err, redis.Nil) {
		xcontext.Logger(ctx).Errorf("Cannot get caller rank: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetLeaderboardResponse{
		Leaderboard: leaderboard,
		MyRank:      myRank + 1,
	}, nil
}

func (d *statisticDomain) GetWeeklyReports(
	ctx context.Context, req *model.GetWeeklyReportsRequest,
) (*model.GetWeeklyReportsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = cfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	reports, err := d.reportRepo.GetListByUser(ctx, userID, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get weekly reports: %v", err)
		return nil, errorx.Unknown
	}

	converted := []model.WeeklyReport{}
	for i := range reports {
		converted = append(converted, model.ConvertWeeklyReport(&reports[i]))
	}

	return &model.GetWeeklyReportsResponse{Reports: converted}, nil
}
