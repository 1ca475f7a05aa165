package domain

import (
	"testing"

	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newFriendshipDomain() *friendshipDomain {
	return NewFriendshipDomain(
		repository.NewFriendshipRepository(), repository.NewUserRepository())
}

func Test_friendshipDomain_SendRequest(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	friendshipDomain := newFriendshipDomain()
	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)

	_, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Cannot send a friend request to yourself", err.Error())

	_, err = friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: "not-exist",
	})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())

	resp, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
		Message:  "hello",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RequestID)

	// Resending is refused while the first request is pending.
	_, err = friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Friend request already sent", err.Error())

	// The other direction is told a request is already waiting for them.
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = friendshipDomain.SendRequest(ctxUser2, &model.SendFriendRequestRequest{
		FriendID: testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "This user already sent you a friend request", err.Error())

	// The recipient sees the pending request.
	requests, err := friendshipDomain.GetRequests(ctxUser2, &model.GetFriendRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, requests.Requests, 1)
	require.Equal(t, resp.RequestID, requests.Requests[0].RequestID)
	require.Equal(t, testutil.User1.ID, requests.Requests[0].From.ID)
	require.Equal(t, "hello", requests.Requests[0].Message)
}

func Test_friendshipDomain_AcceptRequest(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	friendshipDomain := newFriendshipDomain()
	friendshipRepo := repository.NewFriendshipRepository()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
	})
	require.NoError(t, err)

	// Only the recipient can respond.
	ctxUser3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err = friendshipDomain.AcceptRequest(ctxUser3, &model.AcceptFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.Error(t, err)
	require.Equal(t, "Only the recipient can respond to a friend request", err.Error())

	// The sender cannot accept their own request either.
	_, err = friendshipDomain.AcceptRequest(ctxUser1, &model.AcceptFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.Error(t, err)

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = friendshipDomain.AcceptRequest(ctxUser2, &model.AcceptFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.NoError(t, err)

	// Accepting writes both directions.
	edges, err := friendshipRepo.GetBetween(
		ctx, testutil.User1.ID, testutil.User2.ID, entity.FriendshipAccepted)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	// Both users see each other exactly once.
	friends1, err := friendshipDomain.GetFriends(ctxUser1, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, friends1.Friends, 1)
	require.Equal(t, testutil.User2.ID, friends1.Friends[0].ID)

	friends2, err := friendshipDomain.GetFriends(ctxUser2, &model.GetFriendsRequest{})
	require.NoError(t, err)
	require.Len(t, friends2.Friends, 1)
	require.Equal(t, testutil.User1.ID, friends2.Friends[0].ID)

	// Accepting twice fails, and new requests between friends are refused.
	_, err = friendshipDomain.AcceptRequest(ctxUser2, &model.AcceptFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.Error(t, err)
	require.Equal(t, "Not found friend request", err.Error())

	_, err = friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Already friends with this user", err.Error())
}

func Test_friendshipDomain_RejectAndResend(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	friendshipDomain := newFriendshipDomain()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	ctxUser3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)

	resp, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User3.ID,
	})
	require.NoError(t, err)

	_, err = friendshipDomain.RejectRequest(ctxUser3, &model.RejectFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.NoError(t, err)

	relation, err := friendshipDomain.CheckRelation(ctxUser1, &model.CheckRelationRequest{
		UserID: testutil.User3.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "none", relation.Relation)

	// A rejected request does not block a later one; the edge is reopened.
	resp2, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User3.ID,
		Message:  "second try",
	})
	require.NoError(t, err)

	_, err = friendshipDomain.AcceptRequest(ctxUser3, &model.AcceptFriendRequestRequest{
		RequestID: resp2.RequestID,
	})
	require.NoError(t, err)

	relation, err = friendshipDomain.CheckRelation(ctxUser1, &model.CheckRelationRequest{
		UserID: testutil.User3.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "friend", relation.Relation)
}

func Test_friendshipDomain_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	friendshipDomain := newFriendshipDomain()
	friendshipRepo := repository.NewFriendshipRepository()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)

	resp, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
	})
	require.NoError(t, err)

	_, err = friendshipDomain.AcceptRequest(ctxUser2, &model.AcceptFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.NoError(t, err)

	// Either side can delete; both directions disappear together.
	_, err = friendshipDomain.Delete(ctxUser2, &model.DeleteFriendRequest{
		FriendID: testutil.User1.ID,
	})
	require.NoError(t, err)

	edges, err := friendshipRepo.GetBetween(
		ctx, testutil.User1.ID, testutil.User2.ID, entity.FriendshipAccepted)
	require.NoError(t, err)
	require.Empty(t, edges)

	_, err = friendshipDomain.Delete(ctxUser2, &model.DeleteFriendRequest{
		FriendID: testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Not found friendship", err.Error())

	// A deleted friendship does not haunt the pair: a fresh request goes
	// through and the pair can become friends again.
	resp, err = friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
	})
	require.NoError(t, err)

	_, err = friendshipDomain.AcceptRequest(ctxUser2, &model.AcceptFriendRequestRequest{
		RequestID: resp.RequestID,
	})
	require.NoError(t, err)

	relation, err := friendshipDomain.CheckRelation(ctxUser1, &model.CheckRelationRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "friend", relation.Relation)
}

func Test_friendshipDomain_CheckRelation(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	friendshipDomain := newFriendshipDomain()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)

	relation, err := friendshipDomain.CheckRelation(ctxUser1, &model.CheckRelationRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "self", relation.Relation)

	relation, err = friendshipDomain.CheckRelation(ctxUser1, &model.CheckRelationRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "none", relation.Relation)

	resp, err := friendshipDomain.SendRequest(ctxUser1, &model.SendFriendRequestRequest{
		FriendID: testutil.User2.ID,
	})
	require.NoError(t, err)

	relation, err = friendshipDomain.CheckRelation(ctxUser1, &model.CheckRelationRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "request_sent", relation.Relation)
	require.Equal(t, resp.RequestID, relation.RequestID)

	relation, err = friendshipDomain.CheckRelation(ctxUser2, &model.CheckRelationRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "request_received", relation.Relation)
	require.Equal(t, resp.RequestID, relation.RequestID)
}
