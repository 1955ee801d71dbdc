package ports

import (
	"context"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// CreateServerInput carries the fields of a new server.
type CreateServerInput struct {
	OwnerID string
	Name    string
	Icon    string
}

// ServerDetail is a server with its members and channels.
type ServerDetail struct {
	Server   *domain.Server         `json:"server"`
	Members  []*domain.ServerMember `json:"members"`
	Channels []*domain.Channel      `json:"channels"`
}

// ServerService implements server lifecycle and membership.
type ServerService interface {
	Create(ctx context.Context, in CreateServerInput) (*domain.Server, error)
	Get(ctx context.Context, actorID, serverID string) (*ServerDetail, error)
	ListForUser(ctx context.Context, actorID string) ([]*domain.Server, error)
	Join(ctx context.Context, actorID, serverID string) error
	Leave(ctx context.Context, actorID, serverID string) error
	Delete(ctx context.Context, actorID, serverID string) error
	// DeleteOwnedBy removes every server ownerID owns, with the same cascade
	// as Delete, and reports how many were removed.
	DeleteOwnedBy(ctx context.Context, ownerID string) (int, error)
}

// CreateChannelInput carries the fields of a new server channel.
type CreateChannelInput struct {
	ActorID  string
	ServerID string
	Name     string
	Type     domain.ChannelType
}

// HistoryInput selects a page of channel history.
type HistoryInput struct {
	ActorID   string
	ChannelID string
	Before    time.Time
	Limit     int
}

// ChannelService implements channels and messages.
type ChannelService interface {
	CreateServerChannel(ctx context.Context, in CreateChannelInput) (*domain.Channel, error)
	OpenDM(ctx context.Context, actorID, userID string) (*domain.Channel, error)
	SendMessage(ctx context.Context, actorID, channelID, content string) (*domain.Message, error)
	History(ctx context.Context, in HistoryInput) ([]*domain.Message, error)
}
