package model

type SendFriendRequestRequest struct {
	FriendID string `json:"friend_id"`
	Message  string `json:"message"`
}

type SendFriendRequestResponse struct {
	RequestID string `json:"request_id"`
}

type AcceptFriendRequestRequest struct {
	RequestID string `json:"request_id"`
}

type AcceptFriendRequestResponse struct{}

type RejectFriendRequestRequest struct {
	RequestID string `json:"request_id"`
}

type RejectFriendRequestResponse struct{}

type DeleteFriendRequest struct {
	FriendID string `json:"friend_id"`
}

type DeleteFriendResponse struct{}

type Friend struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	AvatarURL string   `json:"avatar_url"`
	Score     int64    `json:"score"`
	Progress  Progress `json:"progress"`
}

type GetFriendsRequest struct{}

type GetFriendsResponse struct {
	Friends []Friend `json:"friends"`
}

type FriendRequest struct {
	RequestID   string    `json:"request_id"`
	From        ShortUser `json:"from"`
	Message     string    `json:"message"`
	RequestedAt string    `json:"requested_at"`
}

type GetFriendRequestsRequest struct{}

type GetFriendRequestsResponse struct {
	Requests []FriendRequest `json:"requests"`
}

type CheckRelationRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

type CheckRelationResponse struct {
	// Relation is one of self, friend, request_sent, request_received, none.
	Relation string `json:"relation"`

	// RequestID is set when the relation is a pending request, so the caller
	// can respond to it directly.
	RequestID string `json:"request_id,omitempty"`
}
