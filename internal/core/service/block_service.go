package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type blockService struct {
	users    ports.UserRepository
	requests ports.FriendRequestRepository
	tx       ports.Transactor
	log      zerolog.Logger
}

// NewBlockService returns the block ledger.
func NewBlockService(users ports.UserRepository, requests ports.FriendRequestRepository, tx ports.Transactor, log zerolog.Logger) ports.BlockService {
	return &blockService{users: users, requests: requests, tx: tx, log: log}
}

// Block adds target to the actor's blocked set, ends any friendship between
// the two and deletes pending requests in both directions.
func (s *blockService) Block(ctx context.Context, actorID, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if actorID == target.ID {
		return domain.ErrSelfRelation
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.HasBlocked(target.ID) {
		return domain.ErrAlreadyBlocked
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.AddBlocked(ctx, actor.ID, target.ID); err != nil {
			return err
		}
		if err := s.users.RemoveFriend(ctx, actor.ID, target.ID); err != nil {
			return err
		}
		if err := s.users.RemoveFriend(ctx, target.ID, actor.ID); err != nil {
			return err
		}
		return s.requests.DeleteBetween(ctx, actor.ID, target.ID)
	})
	if err != nil {
		return fmt.Errorf("block user: %w", err)
	}

	s.log.Info().Str("user_id", actor.ID).Str("blocked_id", target.ID).Msg("user blocked")
	return nil
}

func (s *blockService) Unblock(ctx context.Context, actorID, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.HasBlocked(target.ID) {
		return domain.ErrNotBlocked
	}

	if err := s.users.RemoveBlocked(ctx, actor.ID, target.ID); err != nil {
		return fmt.Errorf("unblock user: %w", err)
	}

	s.log.Info().Str("user_id", actor.ID).Str("blocked_id", target.ID).Msg("user unblocked")
	return nil
}

func (s *blockService) List(ctx context.Context, actorID string) ([]domain.PublicUser, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return publicProfiles(ctx, s.users, actor.Blocked)
}
