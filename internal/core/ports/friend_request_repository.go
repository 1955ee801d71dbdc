package ports

import (
	"context"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// FriendRequestRepository persists pending friend requests. At most one
// request exists per unordered pair of users; Create returns
// domain.ErrFriendRequestExists otherwise.
type FriendRequestRepository interface {
	Create(ctx context.Context, req *domain.FriendRequest) (*domain.FriendRequest, error)
	FindByID(ctx context.Context, id string) (*domain.FriendRequest, error)
	// FindBetween returns the request between a and b in either direction,
	// or domain.ErrFriendRequestNotFound.
	FindBetween(ctx context.Context, a, b string) (*domain.FriendRequest, error)
	// ListByReceiver and ListBySender return pending requests newest first.
	ListByReceiver(ctx context.Context, receiverID string) ([]*domain.FriendRequest, error)
	ListBySender(ctx context.Context, senderID string) ([]*domain.FriendRequest, error)
	Delete(ctx context.Context, id string) error
	DeleteBetween(ctx context.Context, a, b string) error
	DeleteInvolving(ctx context.Context, userID string) error
}
