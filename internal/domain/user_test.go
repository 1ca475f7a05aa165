package domain

import (
	"testing"

	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/jwt"
	"github.com/reciteclub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_Resolve(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := NewUserDomain(repository.NewUserRepository())

	// An empty identity is refused.
	_, err := userDomain.Resolve(ctx, &model.ResolveUserRequest{})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty identity", err.Error())

	// First contact creates the user.
	resp, err := userDomain.Resolve(ctx, &model.ResolveUserRequest{
		Identity: "some-identity",
		Name:     "alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, "alice", resp.User.Name)
	require.NotEmpty(t, resp.AccessToken)

	// The access token carries the user id.
	verifier := jwt.NewVerifier[model.AccessToken]("secret")
	info, err := verifier.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, info.ID)
	require.Equal(t, "some-identity", info.Identity)

	// A second resolve returns the same user and refreshes the profile.
	resp2, err := userDomain.Resolve(ctx, &model.ResolveUserRequest{
		Identity:  "some-identity",
		Name:      "alice2",
		AvatarURL: "https://example.com/alice.png",
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, resp2.User.ID)
	require.Equal(t, "alice2", resp2.User.Name)
	require.Equal(t, "https://example.com/alice.png", resp2.User.AvatarURL)
}

func Test_userDomain_GetMe_GetUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	userDomain := NewUserDomain(repository.NewUserRepository())

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	me, err := userDomain.GetMe(ctxUser1, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, me.ID)
	require.Equal(t, testutil.User1.Name, me.Name)

	// Without authentication.
	_, err = userDomain.GetMe(ctx, &model.GetMeRequest{})
	require.Error(t, err)
	require.Equal(t, "Not authenticated", err.Error())

	user, err := userDomain.GetUser(ctxUser1, &model.GetUserRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Name, user.Name)

	_, err = userDomain.GetUser(ctxUser1, &model.GetUserRequest{UserID: "not-exist"})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}
