package domain

import (
	"testing"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/testutil"
	"github.com/reciteclub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_migrationDomain_MigrateFriends(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	friendshipRepo := repository.NewFriendshipRepository()
	migrationDomain := NewMigrationDomain(repository.NewUserRepository(), friendshipRepo)

	// User1's legacy list contains a valid friend and a dangling id; User2's
	// list is valid.
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User1.ID).
		Update("legacy_friends", entity.Array[string]{testutil.User2.ID, "ghost"}).Error
	require.NoError(t, err)

	err = xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User2.ID).
		Update("legacy_friends", entity.Array[string]{testutil.User3.ID}).Error
	require.NoError(t, err)

	// Dry-run reports the work without writing anything.
	resp, err := migrationDomain.MigrateFriends(ctx, &model.MigrateFriendsRequest{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Processed)
	require.Equal(t, 2, resp.Migrated)
	require.Len(t, resp.Errors, 1)

	edges, err := friendshipRepo.GetBetween(ctx, testutil.User1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Empty(t, edges)

	// The real run converts the valid entries and reports the dangling one.
	resp, err = migrationDomain.MigrateFriends(ctx, &model.MigrateFriendsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Migrated)
	require.Len(t, resp.Errors, 1)

	edges, err = friendshipRepo.GetBetween(
		ctx, testutil.User1.ID, testutil.User2.ID, entity.FriendshipAccepted)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, testutil.User1.ID, edges[0].UserID)

	edges, err = friendshipRepo.GetBetween(
		ctx, testutil.User2.ID, testutil.User3.ID, entity.FriendshipAccepted)
	require.NoError(t, err)
	require.Len(t, edges, 1)

	// Running again migrates nothing new.
	resp, err = migrationDomain.MigrateFriends(ctx, &model.MigrateFriendsRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Migrated)
	require.Len(t, resp.Errors, 1)
}

func Test_migrationDomain_CleanupLegacyFriends(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	userRepo := repository.NewUserRepository()
	migrationDomain := NewMigrationDomain(userRepo, repository.NewFriendshipRepository())

	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User1.ID).
		Update("legacy_friends", entity.Array[string]{testutil.User2.ID, "ghost"}).Error
	require.NoError(t, err)

	err = xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User2.ID).
		Update("legacy_friends", entity.Array[string]{testutil.User3.ID}).Error
	require.NoError(t, err)

	_, err = migrationDomain.MigrateFriends(ctx, &model.MigrateFriendsRequest{})
	require.NoError(t, err)

	// Dry-run verifies but clears nothing.
	resp, err := migrationDomain.CleanupLegacyFriends(ctx, &model.CleanupLegacyFriendsRequest{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Processed)
	require.Equal(t, 1, resp.Cleaned)
	require.Len(t, resp.Errors, 1)

	user2, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Len(t, user2.LegacyFriends, 1)

	// The real run clears only the fully migrated list. User1 keeps the
	// legacy list because of the dangling id.
	resp, err = migrationDomain.CleanupLegacyFriends(ctx, &model.CleanupLegacyFriendsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Cleaned)
	require.Len(t, resp.Errors, 1)

	user2, err = userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Empty(t, user2.LegacyFriends)

	user1, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, user1.LegacyFriends, 2)
}
