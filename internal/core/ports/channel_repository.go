package ports

import (
	"context"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// ChannelRepository persists channels.
type ChannelRepository interface {
	Create(ctx context.Context, ch *domain.Channel) (*domain.Channel, error)
	FindByID(ctx context.Context, id string) (*domain.Channel, error)
	// FindDM returns the direct-message channel between a and b, or
	// domain.ErrChannelNotFound.
	FindDM(ctx context.Context, a, b string) (*domain.Channel, error)
	ListByServer(ctx context.Context, serverID string) ([]*domain.Channel, error)
	SetLastMessage(ctx context.Context, channelID, messageID string) error
	DeleteByServer(ctx context.Context, serverID string) error
}

// MessageQuery selects a page of channel history.
type MessageQuery struct {
	ChannelID string
	Before    time.Time // zero = from the newest message
	Limit     int
}

// MessageRepository persists channel messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// List returns messages matching q, newest first.
	List(ctx context.Context, q MessageQuery) ([]*domain.Message, error)
	DeleteByChannels(ctx context.Context, channelIDs []string) error
}
