package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const defaultMigrationBatchSize = 100

// MigrationDomain converts the legacy embedded friend-id lists into
// friendship rows. It is driven by an operator command, not by client
// traffic, and is safe to run repeatedly: already-converted edges are
// skipped.
type MigrationDomain interface {
	MigrateFriends(ctx context.Context, req *model.MigrateFriendsRequest) (*model.MigrateFriendsResponse, error)
	CleanupLegacyFriends(ctx context.Context, req *model.CleanupLegacyFriendsRequest) (*model.CleanupLegacyFriendsResponse, error)
}

type migrationDomain struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
}

func NewMigrationDomain(
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
) *migrationDomain {
	return &migrationDomain{userRepo: userRepo, friendshipRepo: friendshipRepo}
}

// MigrateFriends walks all users in id order and writes an accepted edge from
// each user to every id in their legacy list. A failed id is recorded and
// skipped, never aborting the whole run.
func (d *migrationDomain) MigrateFriends(
	ctx context.Context, req *model.MigrateFriendsRequest,
) (*model.MigrateFriendsResponse, error) {
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = defaultMigrationBatchSize
	}

	resp := &model.MigrateFriendsResponse{Errors: []string{}}
	afterID := ""
	for {
		users, err := d.userRepo.GetList(ctx, afterID, batchSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot list users for migration: %v", err)
			return nil, errorx.Unknown
		}

		if len(users) == 0 {
			break
		}

		for i := range users {
			resp.Processed++
			migrated, errs := d.migrateUser(ctx, &users[i], req.DryRun)
			resp.Migrated += migrated
			resp.Errors = append(resp.Errors, errs...)
		}

		afterID = users[len(users)-1].ID
	}

	return resp, nil
}

// migrateUser returns the number of edges written (or would be written under
// dry-run) for one user.
func (d *migrationDomain) migrateUser(
	ctx context.Context, user *entity.User, dryRun bool,
) (int, []string) {
	migrated := 0
	errs := []string{}
	for _, friendID := range user.LegacyFriends {
		if friendID == user.ID {
			errs = append(errs, fmt.Sprintf("user %s: legacy list contains itself", user.ID))
			continue
		}

		if _, err := d.userRepo.GetByID(ctx, friendID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs = append(errs, fmt.Sprintf(
					"user %s: legacy friend %s does not exist", user.ID, friendID))
			} else {
				errs = append(errs, fmt.Sprintf(
					"user %s: cannot get legacy friend %s: %v", user.ID, friendID, err))
			}
			continue
		}

		if exists, err := d.edgeExists(ctx, user.ID, friendID); err != nil {
			errs = append(errs, fmt.Sprintf(
				"user %s: cannot check edge to %s: %v", user.ID, friendID, err))
			continue
		} else if exists {
			continue
		}

		if dryRun {
			migrated++
			continue
		}

		now := time.Now()
		err := d.friendshipRepo.UpsertAccepted(ctx, &entity.Friendship{
			Base:        entity.Base{ID: uuid.NewString()},
			UserID:      user.ID,
			FriendID:    friendID,
			RequestedAt: now,
			AcceptedAt:  sql.NullTime{Time: now, Valid: true},
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf(
				"user %s: cannot create edge to %s: %v", user.ID, friendID, err))
			continue
		}

		migrated++
	}

	return migrated, errs
}

func (d *migrationDomain) edgeExists(ctx context.Context, userID, friendID string) (bool, error) {
	edges, err := d.friendshipRepo.GetBetween(ctx, userID, friendID, entity.FriendshipAccepted)
	if err != nil {
		return false, err
	}

	for _, edge := range edges {
		if edge.UserID == userID && edge.FriendID == friendID {
			return true, nil
		}
	}

	return false, nil
}

// CleanupLegacyFriends empties the legacy lists once every id in them is
// covered by an accepted edge. A user whose list is not fully covered is
// reported and left untouched, so no relationship data is dropped before the
// migration has caught it.
func (d *migrationDomain) CleanupLegacyFriends(
	ctx context.Context, req *model.CleanupLegacyFriendsRequest,
) (*model.CleanupLegacyFriendsResponse, error) {
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = defaultMigrationBatchSize
	}

	resp := &model.CleanupLegacyFriendsResponse{Errors: []string{}}
	afterID := ""
	for {
		users, err := d.userRepo.GetList(ctx, afterID, batchSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot list users for cleanup: %v", err)
			return nil, errorx.Unknown
		}

		if len(users) == 0 {
			break
		}

		for i := range users {
			user := &users[i]
			if len(user.LegacyFriends) == 0 {
				continue
			}

			resp.Processed++
			covered := true
			for _, friendID := range user.LegacyFriends {
				exists, err := d.edgeExists(ctx, user.ID, friendID)
				if err != nil {
					resp.Errors = append(resp.Errors, fmt.Sprintf(
						"user %s: cannot check edge to %s: %v", user.ID, friendID, err))
					covered = false
					break
				}

				if !exists {
					resp.Errors = append(resp.Errors, fmt.Sprintf(
						"user %s: legacy friend %s is not migrated yet", user.ID, friendID))
					covered = false
					break
				}
			}

			if !covered {
				continue
			}

			if !req.DryRun {
				if err := d.userRepo.ClearLegacyFriends(ctx, user.ID); err != nil {
					resp.Errors = append(resp.Errors, fmt.Sprintf(
						"user %s: cannot clear legacy list: %v", user.ID, err))
					continue
				}
			}

			resp.Cleaned++
		}

		afterID = users[len(users)-1].ID
	}

	return resp, nil
}
