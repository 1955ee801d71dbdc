package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

type channelService struct {
	channels ports.ChannelRepository
	messages ports.MessageRepository
	servers  ports.ServerRepository
	members  ports.MemberRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewChannelService(
	channels ports.ChannelRepository,
	messages ports.MessageRepository,
	servers ports.ServerRepository,
	members ports.MemberRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) ports.ChannelService {
	return &channelService{
		channels: channels,
		messages: messages,
		servers:  servers,
		members:  members,
		users:    users,
		log:      log,
	}
}

func (s *channelService) CreateServerChannel(ctx context.Context, in ports.CreateChannelInput) (*domain.Channel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("channel name is required")
	}
	if in.Type == "" {
		in.Type = domain.ChannelServerText
	}
	if !in.Type.IsServerType() {
		return nil, domain.ErrInvalidChannelType
	}

	srv, err := s.servers.FindByID(ctx, in.ServerID)
	if err != nil {
		return nil, err
	}
	if srv.OwnerID != in.ActorID {
		return nil, domain.ErrNotServerOwner
	}

	ch, err := s.channels.Create(ctx, &domain.Channel{
		Type:     in.Type,
		ServerID: srv.ID,
		Name:     name,
		OwnerID:  in.ActorID,
	})
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	s.log.Info().Str("channel_id", ch.ID).Str("server_id", srv.ID).Str("type", string(ch.Type)).Msg("channel created")
	return ch, nil
}

// OpenDM returns the direct-message channel between the caller and userID,
// creating it on first use. Blocked pairs cannot open one.
func (s *channelService) OpenDM(ctx context.Context, actorID, userID string) (*domain.Channel, error) {
	other, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if other.ID == actorID {
		return nil, domain.ErrSelfRelation
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.HasBlocked(other.ID) || other.HasBlocked(actor.ID) {
		return nil, domain.NewValidationError("cannot message a blocked user")
	}

	existing, err := s.channels.FindDM(ctx, actor.ID, other.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrChannelNotFound) {
		return nil, fmt.Errorf("find dm: %w", err)
	}

	ch, err := s.channels.Create(ctx, &domain.Channel{
		Type:       domain.ChannelDM,
		Recipients: []string{actor.ID, other.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("create dm: %w", err)
	}

	s.log.Info().Str("channel_id", ch.ID).Msg("dm opened")
	return ch, nil
}

func (s *channelService) SendMessage(ctx context.Context, actorID, channelID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content is required")
	}
	if utf8.RuneCountInString(content) > domain.MaxMessageLength {
		return nil, domain.NewValidationError("content must be at most %d characters", domain.MaxMessageLength)
	}

	ch, err := s.accessible(ctx, actorID, channelID)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.Create(ctx, &domain.Message{
		ChannelID: ch.ID,
		AuthorID:  actorID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if err := s.channels.SetLastMessage(ctx, ch.ID, msg.ID); err != nil {
		s.log.Warn().Err(err).Str("channel_id", ch.ID).Msg("failed to update last message")
	}
	return msg, nil
}

// History returns messages before in.Before, newest first. The limit
// defaults to DefaultHistoryLimit and is capped at MaxHistoryLimit.
func (s *channelService) History(ctx context.Context, in ports.HistoryInput) ([]*domain.Message, error) {
	ch, err := s.accessible(ctx, in.ActorID, in.ChannelID)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	msgs, err := s.messages.List(ctx, ports.MessageQuery{ChannelID: ch.ID, Before: in.Before, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("channel history: %w", err)
	}
	return msgs, nil
}

// accessible loads the channel and checks the caller may read it: recipients
// for DMs and group DMs, server members for server channels.
func (s *channelService) accessible(ctx context.Context, actorID, channelID string) (*domain.Channel, error) {
	ch, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	switch {
	case ch.Type.IsPrivate():
		if !ch.HasRecipient(actorID) {
			return nil, domain.ErrNotRecipient
		}
	case ch.ServerID != "":
		ok, err := s.members.IsMember(ctx, ch.ServerID, actorID)
		if err != nil {
			return nil, fmt.Errorf("check membership: %w", err)
		}
		if !ok {
			return nil, domain.ErrNotServerMember
		}
	}
	return ch, nil
}
