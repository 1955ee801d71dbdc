package ports

import (
	"context"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// FriendRequestView is a pending request with the other party populated:
// the sender for incoming requests, the receiver for outgoing ones.
type FriendRequestView struct {
	ID        string            `json:"id"`
	User      domain.PublicUser `json:"user"`
	CreatedAt time.Time         `json:"created_at"`
}

// FriendService implements the friend ledger.
type FriendService interface {
	Send(ctx context.Context, senderID, receiverID string) (*domain.FriendRequest, error)
	Accept(ctx context.Context, actorID, requestID string) error
	Deny(ctx context.Context, actorID, requestID string) error
	Revoke(ctx context.Context, actorID, requestID string) error
	Remove(ctx context.Context, actorID, friendID string) error
	ListFriends(ctx context.Context, actorID string) ([]domain.PublicUser, error)
	ListIncoming(ctx context.Context, actorID string) ([]FriendRequestView, error)
	ListOutgoing(ctx context.Context, actorID string) ([]FriendRequestView, error)
}

// BlockService implements the block ledger.
type BlockService interface {
	Block(ctx context.Context, actorID, targetID string) error
	Unblock(ctx context.Context, actorID, targetID string) error
	List(ctx context.Context, actorID string) ([]domain.PublicUser, error)
}

// BanService implements the ban ledger.
type BanService interface {
	IssuePermanent(ctx context.Context, userID, reason string) (*domain.Ban, error)
	IssueTemporary(ctx context.Context, userID, reason string, minutes int) (*domain.Ban, error)
	Status(ctx context.Context, userID string) (domain.BanStatus, error)
	History(ctx context.Context, userID string) ([]*domain.Ban, error)
}
