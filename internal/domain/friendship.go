package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FriendshipDomain interface {
	SendRequest(ctx context.Context, req *model.SendFriendRequestRequest) (*model.SendFriendRequestResponse, error)
	AcceptRequest(ctx context.Context, req *model.AcceptFriendRequestRequest) (*model.AcceptFriendRequestResponse, error)
	RejectRequest(ctx context.Context, req *model.RejectFriendRequestRequest) (*model.RejectFriendRequestResponse, error)
	Delete(ctx context.Context, req *model.DeleteFriendRequest) (*model.DeleteFriendResponse, error)
	GetFriends(ctx context.Context, req *model.GetFriendsRequest) (*model.GetFriendsResponse, error)
	GetRequests(ctx context.Context, req *model.GetFriendRequestsRequest) (*model.GetFriendRequestsResponse, error)
	CheckRelation(ctx context.Context, req *model.CheckRelationRequest) (*model.CheckRelationResponse, error)
}

type friendshipDomain struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

func NewFriendshipDomain(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
) *friendshipDomain {
	return &friendshipDomain{friendshipRepo: friendshipRepo, userRepo: userRepo}
}

// SendRequest creates a pending friend request toward another user. The
// pre-checks give precise errors for the common cases; the unique pair index
// underneath still decides the winner when two requests race.
func (d *friendshipDomain) SendRequest(
	ctx context.Context, req *model.SendFriendRequestRequest,
) (*model.SendFriendRequestResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.FriendID == userID {
		return nil, errorx.New(errorx.BadRequest, "Cannot send a friend request to yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.FriendID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get target user: %v", err)
		return nil, errorx.Unknown
	}

	edges, err := d.friendshipRepo.GetBetween(ctx, userID, req.FriendID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendship edges: %v", err)
		return nil, errorx.Unknown
	}

	for _, edge := range edges {
		switch edge.Status {
		case entity.FriendshipAccepted:
			return nil, errorx.New(errorx.AlreadyExists, "Already friends with this user")
		case entity.FriendshipPending:
			if edge.UserID == userID {
				return nil, errorx.New(errorx.AlreadyExists, "Friend request already sent")
			}

			return nil, errorx.New(errorx.AlreadyExists,
				"This user already sent you a friend request")
		}
	}

	friendship := &entity.Friendship{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		FriendID:    req.FriendID,
		Status:      entity.FriendshipPending,
		Message:     req.Message,
		RequestedAt: time.Now(),
	}

	if err := d.friendshipRepo.CreatePending(ctx, friendship); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, errorx.New(errorx.AlreadyExists, "Friend request already sent")
		}

		xcontext.Logger(ctx).Errorf("Cannot create friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SendFriendRequestResponse{RequestID: friendship.ID}, nil
}

// AcceptRequest accepts a pending request addressed to the caller. Both the
// status transition and the mirror edge are written in one transaction, so an
// accepted friendship is always visible from both directions.
func (d *friendshipDomain) AcceptRequest(
	ctx context.Context, req *model.AcceptFriendRequestRequest,
) (*model.AcceptFriendRequestResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	friendship, err := d.getPendingFor(ctx, req.RequestID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.friendshipRepo.UpdateStatus(ctx, friendship.ID,
		entity.FriendshipPending, entity.FriendshipAccepted, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot accept friend request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.friendshipRepo.UpsertAccepted(ctx, &entity.Friendship{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      friendship.FriendID,
		FriendID:    friendship.UserID,
		RequestedAt: friendship.RequestedAt,
		AcceptedAt:  sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mirror accepted friendship: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.AcceptFriendRequestResponse{}, nil
}

func (d *friendshipDomain) RejectRequest(
	ctx context.Context, req *model.RejectFriendRequestRequest,
) (*model.RejectFriendRequestResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	friendship, err := d.getPendingFor(ctx, req.RequestID, userID)
	if err != nil {
		return nil, err
	}

	err = d.friendshipRepo.UpdateStatus(ctx, friendship.ID,
		entity.FriendshipPending, entity.FriendshipRejected, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot reject friend request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RejectFriendRequestResponse{}, nil
}

// getPendingFor loads a pending request and checks that it is addressed to
// the given user.
func (d *friendshipDomain) getPendingFor(
	ctx context.Context, requestID, userID string,
) (*entity.Friendship, error) {
	friendship, err := d.friendshipRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found friend request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get friend request: %v", err)
		return nil, errorx.Unknown
	}

	if friendship.FriendID != userID {
		return nil, errorx.New(errorx.PermissionDenied,
			"Only the recipient can respond to a friend request")
	}

	if friendship.Status != entity.FriendshipPending {
		return nil, errorx.New(errorx.NotFound, "Not found friend request")
	}

	return friendship, nil
}

func (d *friendshipDomain) Delete(
	ctx context.Context, req *model.DeleteFriendRequest,
) (*model.DeleteFriendResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	edges, err := d.friendshipRepo.GetBetween(ctx, userID, req.FriendID, entity.FriendshipAccepted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendship edges: %v", err)
		return nil, errorx.Unknown
	}

	if len(edges) == 0 {
		return nil, errorx.New(errorx.NotFound, "Not found friendship")
	}

	if err := d.friendshipRepo.DeleteAcceptedBetween(ctx, userID, req.FriendID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete friendship: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteFriendResponse{}, nil
}

func (d *friendshipDomain) GetFriends(
	ctx context.Context, req *model.GetFriendsRequest,
) (*model.GetFriendsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	edges, err := d.friendshipRepo.GetListByUser(ctx, userID, entity.FriendshipAccepted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendships: %v", err)
		return nil, errorx.Unknown
	}

	friendIDs := []string{}
	seen := map[string]bool{}
	for _, edge := range edges {
		counterpart := edge.FriendID
		if counterpart == userID {
			counterpart = edge.UserID
		}

		if !seen[counterpart] {
			seen[counterpart] = true
			friendIDs = append(friendIDs, counterpart)
		}
	}

	users, err := d.userRepo.GetByIDs(ctx, friendIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friend profiles: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	friends := []model.Friend{}
	for _, id := range friendIDs {
		if user, ok := userMap[id]; ok {
			friends = append(friends, model.ConvertFriend(user))
		}
	}

	return &model.GetFriendsResponse{Friends: friends}, nil
}

func (d *friendshipDomain) GetRequests(
	ctx context.Context, req *model.GetFriendRequestsRequest,
) (*model.GetFriendRequestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	pendings, err := d.friendshipRepo.GetIncomingPending(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending requests: %v", err)
		return nil, errorx.Unknown
	}

	senderIDs := []string{}
	for _, pending := range pendings {
		senderIDs = append(senderIDs, pending.UserID)
	}

	senders, err := d.userRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get request senders: %v", err)
		return nil, errorx.Unknown
	}

	senderMap := map[string]*entity.User{}
	for i := range senders {
		senderMap[senders[i].ID] = &senders[i]
	}

	requests := []model.FriendRequest{}
	for _, pending := range pendings {
		requests = append(requests, model.FriendRequest{
			RequestID:   pending.ID,
			From:        model.ConvertShortUser(senderMap[pending.UserID]),
			Message:     pending.Message,
			RequestedAt: pending.RequestedAt.Format(model.DefaultTimeLayout),
		})
	}

	return &model.GetFriendRequestsResponse{Requests: requests}, nil
}

func (d *friendshipDomain) CheckRelation(
	ctx context.Context, req *model.CheckRelationRequest,
) (*model.CheckRelationResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.UserID == userID {
		return &model.CheckRelationResponse{Relation: "self"}, nil
	}

	edges, err := d.friendshipRepo.GetBetween(ctx, userID, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get friendship edges: %v", err)
		return nil, errorx.Unknown
	}

	for _, edge := range edges {
		if edge.Status == entity.FriendshipAccepted {
			return &model.CheckRelationResponse{Relation: "friend"}, nil
		}
	}

	for _, edge := range edges {
		if edge.Status != entity.FriendshipPending {
			continue
		}

		if edge.UserID == userID {
			return &model.CheckRelationResponse{
				Relation:  "request_sent",
				RequestID: edge.ID,
			}, nil
		}

		return &model.CheckRelationResponse{
			Relation:  "request_received",
			RequestID: edge.ID,
		}, nil
	}

	return &model.CheckRelationResponse{Relation: "none"}, nil
}
