package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type serverService struct {
	servers  ports.ServerRepository
	members  ports.MemberRepository
	channels ports.ChannelRepository
	messages ports.MessageRepository
	tx       ports.Transactor
	log      zerolog.Logger
}

func NewServerService(
	servers ports.ServerRepository,
	members ports.MemberRepository,
	channels ports.ChannelRepository,
	messages ports.MessageRepository,
	tx ports.Transactor,
	log zerolog.Logger,
) ports.ServerService {
	return &serverService{
		servers:  servers,
		members:  members,
		channels: channels,
		messages: messages,
		tx:       tx,
		log:      log,
	}
}

// Create makes the caller owner of a new server and enrolls them as its
// first member.
func (s *serverService) Create(ctx context.Context, in ports.CreateServerInput) (*domain.Server, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("server name is required")
	}

	now := time.Now().UTC()
	var created *domain.Server
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		srv, err := s.servers.Create(ctx, &domain.Server{
			Name:      name,
			OwnerID:   in.OwnerID,
			Icon:      in.Icon,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		created = srv
		return s.members.Add(ctx, &domain.ServerMember{ServerID: srv.ID, UserID: in.OwnerID, JoinedAt: now})
	})
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	s.log.Info().Str("server_id", created.ID).Str("owner_id", created.OwnerID).Msg("server created")
	return created, nil
}

func (s *serverService) Get(ctx context.Context, actorID, serverID string) (*ports.ServerDetail, error) {
	srv, err := s.servers.FindByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, srv.ID, actorID); err != nil {
		return nil, err
	}

	members, err := s.members.ListByServer(ctx, srv.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	channels, err := s.channels.ListByServer(ctx, srv.ID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return &ports.ServerDetail{Server: srv, Members: members, Channels: channels}, nil
}

func (s *serverService) ListForUser(ctx context.Context, actorID string) ([]*domain.Server, error) {
	ids, err := s.members.ServerIDsForUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	servers, err := s.servers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return servers, nil
}

func (s *serverService) Join(ctx context.Context, actorID, serverID string) error {
	srv, err := s.servers.FindByID(ctx, serverID)
	if err != nil {
		return err
	}
	if err := s.members.Add(ctx, &domain.ServerMember{ServerID: srv.ID, UserID: actorID, JoinedAt: time.Now().UTC()}); err != nil {
		return err
	}

	s.log.Info().Str("server_id", srv.ID).Str("user_id", actorID).Msg("member joined")
	return nil
}

func (s *serverService) Leave(ctx context.Context, actorID, serverID string) error {
	srv, err := s.servers.FindByID(ctx, serverID)
	if err != nil {
		return err
	}
	if srv.OwnerID == actorID {
		return domain.ErrOwnerCannotLeave
	}
	if err := s.requireMember(ctx, srv.ID, actorID); err != nil {
		return err
	}
	if err := s.members.Remove(ctx, srv.ID, actorID); err != nil {
		return fmt.Errorf("leave server: %w", err)
	}

	s.log.Info().Str("server_id", srv.ID).Str("user_id", actorID).Msg("member left")
	return nil
}

// Delete removes an owned server together with its members, channels and
// the messages of those channels.
func (s *serverService) Delete(ctx context.Context, actorID, serverID string) error {
	srv, err := s.servers.FindByID(ctx, serverID)
	if err != nil {
		return err
	}
	if srv.OwnerID != actorID {
		return domain.ErrNotServerOwner
	}
	return s.remove(ctx, srv)
}

func (s *serverService) DeleteOwnedBy(ctx context.Context, ownerID string) (int, error) {
	owned, err := s.servers.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list owned servers: %w", err)
	}
	for i, srv := range owned {
		if err := s.remove(ctx, srv); err != nil {
			return i, err
		}
	}
	return len(owned), nil
}

func (s *serverService) remove(ctx context.Context, srv *domain.Server) error {
	channels, err := s.channels.ListByServer(ctx, srv.ID)
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}
	channelIDs := make([]string, 0, len(channels))
	for _, ch := range channels {
		channelIDs = append(channelIDs, ch.ID)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.members.DeleteByServer(ctx, srv.ID); err != nil {
			return err
		}
		if len(channelIDs) > 0 {
			if err := s.messages.DeleteByChannels(ctx, channelIDs); err != nil {
				return err
			}
			if err := s.channels.DeleteByServer(ctx, srv.ID); err != nil {
				return err
			}
		}
		return s.servers.Delete(ctx, srv.ID)
	})
	if err != nil {
		return fmt.Errorf("delete server: %w", err)
	}

	s.log.Info().Str("server_id", srv.ID).Int("channels", len(channelIDs)).Msg("server deleted")
	return nil
}

func (s *serverService) requireMember(ctx context.Context, serverID, userID string) error {
	ok, err := s.members.IsMember(ctx, serverID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		return domain.ErrNotServerMember
	}
	return nil
}
