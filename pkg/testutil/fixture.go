package testutil

import (
	"context"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:     entity.Base{ID: "user1"},
		Identity: "identity1",
		Name:     "user1",
	}

	User2 = entity.User{
		Base:     entity.Base{ID: "user2"},
		Identity: "identity2",
		Name:     "user2",
	}

	User3 = entity.User{
		Base:     entity.Base{ID: "user3"},
		Identity: "identity3",
		Name:     "user3",
	}
)

// CreateFixtureDb inserts the fixture users through the real repository, so
// tests exercise the same write path as production code.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, User3} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}
