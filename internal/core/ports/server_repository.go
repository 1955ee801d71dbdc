package ports

import (
	"context"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// ServerRepository persists servers.
type ServerRepository interface {
	Create(ctx context.Context, server *domain.Server) (*domain.Server, error)
	FindByID(ctx context.Context, id string) (*domain.Server, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Server, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Server, error)
	Delete(ctx context.Context, id string) error
}

// MemberRepository persists server memberships.
type MemberRepository interface {
	// Add returns domain.ErrAlreadyMember when the membership exists.
	Add(ctx context.Context, member *domain.ServerMember) error
	Remove(ctx context.Context, serverID, userID string) error
	IsMember(ctx context.Context, serverID, userID string) (bool, error)
	ListByServer(ctx context.Context, serverID string) ([]*domain.ServerMember, error)
	ServerIDsForUser(ctx context.Context, userID string) ([]string, error)
	DeleteByServer(ctx context.Context, serverID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
