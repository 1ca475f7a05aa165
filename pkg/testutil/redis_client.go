package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	ExistFunc               func(ctx context.Context, key string) (bool, error)
	DelFunc                 func(ctx context.Context, keys ...string) error
	ZAddFunc                func(ctx context.Context, key string, z redis.Z) error
	ZIncrByFunc             func(ctx context.Context, key string, incr int64, member string) error
	ZRevRangeWithScoresFunc func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	ZRevRankFunc            func(ctx context.Context, key string, member string) (uint64, error)
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	return nil
}

func (m *MockRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if m.ZAddFunc != nil {
		return m.ZAddFunc(ctx, key, z)
	}

	return nil
}

func (m *MockRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	if m.ZIncrByFunc != nil {
		return m.ZIncrByFunc(ctx, key, incr, member)
	}

	return nil
}

func (m *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	if m.ZRevRangeWithScoresFunc != nil {
		return m.ZRevRangeWithScoresFunc(ctx, key, offset, limit)
	}

	return nil, nil
}

func (m *MockRedisClient) ZRevRank(ctx context.Context, key, member string) (uint64, error) {
	if m.ZRevRankFunc != nil {
		return m.ZRevRankFunc(ctx, key, member)
	}

	return 0, nil
}

// NewInMemoryRedisClient returns a MockRedisClient backed by in-process
// sorted sets, good enough for leaderboard tests.
func NewInMemoryRedisClient() *MockRedisClient {
	var mutex sync.Mutex
	sets := map[string]map[string]float64{}

	sorted := func(key string) []redis.Z {
		members := []redis.Z{}
		for member, score := range sets[key] {
			members = append(members, redis.Z{Score: score, Member: member})
		}

		sort.Slice(members, func(i, j int) bool {
			if members[i].Score != members[j].Score {
				return members[i].Score > members[j].Score
			}

			return members[i].Member.(string) > members[j].Member.(string)
		})

		return members
	}

	return &MockRedisClient{
		DelFunc: func(ctx context.Context, keys ...string) error {
			mutex.Lock()
			defer mutex.Unlock()
			for _, key := range keys {
				delete(sets, key)
			}

			return nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			mutex.Lock()
			defer mutex.Unlock()
			if _, ok := sets[key]; !ok {
				sets[key] = map[string]float64{}
			}

			sets[key][z.Member.(string)] = z.Score
			return nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			mutex.Lock()
			defer mutex.Unlock()
			if _, ok := sets[key]; !ok {
				sets[key] = map[string]float64{}
			}

			sets[key][member] += float64(incr)
			return nil
		},
		ZRevRangeWithScoresFunc: func(
			ctx context.Context, key string, offset, limit int,
		) ([]redis.Z, error) {
			mutex.Lock()
			defer mutex.Unlock()
			members := sorted(key)
			if offset >= len(members) {
				return nil, nil
			}

			end := offset + limit
			if end > len(members) {
				end = len(members)
			}

			return members[offset:end], nil
		},
		ZRevRankFunc: func(ctx context.Context, key, member string) (uint64, error) {
			mutex.Lock()
			defer mutex.Unlock()
			for i, z := range sorted(key) {
				if z.Member.(string) == member {
					return uint64(i), nil
				}
			}

			return 0, redis.Nil
		},
	}
}
