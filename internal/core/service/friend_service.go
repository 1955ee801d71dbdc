package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type friendService struct {
	users    ports.UserRepository
	requests ports.FriendRequestRepository
	tx       ports.Transactor
	log      zerolog.Logger
}

// NewFriendService returns the friend ledger. Every operation re-reads the
// users and requests it depends on.
func NewFriendService(users ports.UserRepository, requests ports.FriendRequestRepository, tx ports.Transactor, log zerolog.Logger) ports.FriendService {
	return &friendService{users: users, requests: requests, tx: tx, log: log}
}

func (s *friendService) Send(ctx context.Context, senderID, receiverID string) (*domain.FriendRequest, error) {
	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if senderID == receiver.ID {
		return nil, domain.ErrSelfRelation
	}
	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if receiver.HasBlocked(sender.ID) || sender.HasBlocked(receiver.ID) {
		return nil, domain.ErrBlockedRelation
	}
	if sender.IsFriend(receiver.ID) {
		return nil, domain.ErrAlreadyFriends
	}

	if _, err := s.requests.FindBetween(ctx, sender.ID, receiver.ID); err == nil {
		return nil, domain.ErrFriendRequestExists
	} else if !errors.Is(err, domain.ErrFriendRequestNotFound) {
		return nil, fmt.Errorf("send friend request: %w", err)
	}

	created, err := s.requests.Create(ctx, &domain.FriendRequest{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", created.ID).Str("sender", sender.ID).Str("receiver", receiver.ID).Msg("friend request sent")
	return created, nil
}

// Accept materializes the friendship on both users and removes the request.
// Only the receiver may accept.
func (s *friendService) Accept(ctx context.Context, actorID, requestID string) error {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != actorID {
		return domain.ErrNotRequestReceiver
	}

	if _, err := s.users.FindByID(ctx, req.SenderID); err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.AddFriend(ctx, req.ReceiverID, req.SenderID); err != nil {
			return err
		}
		if err := s.users.AddFriend(ctx, req.SenderID, req.ReceiverID); err != nil {
			return err
		}
		return s.requests.Delete(ctx, req.ID)
	})
	if err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}

	s.log.Info().Str("request_id", req.ID).Str("sender", req.SenderID).Str("receiver", req.ReceiverID).Msg("friend request accepted")
	return nil
}

func (s *friendService) Deny(ctx context.Context, actorID, requestID string) error {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != actorID {
		return domain.ErrNotRequestReceiver
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return fmt.Errorf("deny friend request: %w", err)
	}

	s.log.Info().Str("request_id", req.ID).Msg("friend request denied")
	return nil
}

func (s *friendService) Revoke(ctx context.Context, actorID, requestID string) error {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.SenderID != actorID {
		return domain.ErrNotRequestSender
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return fmt.Errorf("revoke friend request: %w", err)
	}

	s.log.Info().Str("request_id", req.ID).Msg("friend request revoked")
	return nil
}

// Remove ends a friendship on both sides.
func (s *friendService) Remove(ctx context.Context, actorID, friendID string) error {
	friend, err := s.users.FindByID(ctx, friendID)
	if err != nil {
		return err
	}
	if actorID == friend.ID {
		return domain.ErrSelfRelation
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsFriend(friend.ID) {
		return domain.ErrNotFriends
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.RemoveFriend(ctx, actor.ID, friend.ID); err != nil {
			return err
		}
		return s.users.RemoveFriend(ctx, friend.ID, actor.ID)
	})
	if err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}

	s.log.Info().Str("user_id", actor.ID).Str("friend_id", friend.ID).Msg("friend removed")
	return nil
}

func (s *friendService) ListFriends(ctx context.Context, actorID string) ([]domain.PublicUser, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return publicProfiles(ctx, s.users, actor.Friends)
}

func (s *friendService) ListIncoming(ctx context.Context, actorID string) ([]ports.FriendRequestView, error) {
	reqs, err := s.requests.ListByReceiver(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return s.views(ctx, reqs, func(fr *domain.FriendRequest) string { return fr.SenderID })
}

func (s *friendService) ListOutgoing(ctx context.Context, actorID string) ([]ports.FriendRequestView, error) {
	reqs, err := s.requests.ListBySender(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing requests: %w", err)
	}
	return s.views(ctx, reqs, func(fr *domain.FriendRequest) string { return fr.ReceiverID })
}

// views populates the other party of each request, dropping requests whose
// counterpart no longer exists.
func (s *friendService) views(ctx context.Context, reqs []*domain.FriendRequest, other func(*domain.FriendRequest) string) ([]ports.FriendRequestView, error) {
	ids := make([]string, 0, len(reqs))
	for _, fr := range reqs {
		ids = append(ids, other(fr))
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load request users: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]ports.FriendRequestView, 0, len(reqs))
	for _, fr := range reqs {
		u, ok := byID[other(fr)]
		if !ok {
			continue
		}
		out = append(out, ports.FriendRequestView{ID: fr.ID, User: u.Public(), CreatedAt: fr.CreatedAt})
	}
	return out, nil
}

// publicProfiles resolves ids to public profiles in the order given.
func publicProfiles(ctx context.Context, users ports.UserRepository, ids []string) ([]domain.PublicUser, error) {
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	byID := make(map[string]*domain.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	out := make([]domain.PublicUser, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u.Public())
		}
	}
	return out, nil
}
