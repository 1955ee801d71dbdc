package ports

import (
	"context"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// UserRepository persists accounts and their friend and blocked sets.
// Set mutations are idempotent: adding a present id or removing an absent
// one is not an error.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that still exist, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// TagsForUsername lists the tags already taken by users sharing username.
	TagsForUsername(ctx context.Context, username string) ([]string, error)
	SetRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error

	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	AddBlocked(ctx context.Context, userID, blockedID string) error
	RemoveBlocked(ctx context.Context, userID, blockedID string) error
	// RemoveReferences strips id from every user's friend and blocked sets.
	RemoveReferences(ctx context.Context, id string) error
}
