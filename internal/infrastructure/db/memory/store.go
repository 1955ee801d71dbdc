// Package memory implements every repository in process. It backs the
// "memory" store driver used for local runs and for tests.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// Store holds all collections behind a single lock.
type Store struct {
	mu sync.RWMutex

	users    map[string]*domain.User
	requests map[string]*domain.FriendRequest
	bans     map[string]*domain.Ban
	servers  map[string]*domain.Server
	members  []*domain.ServerMember
	channels map[string]*domain.Channel
	messages map[string]*domain.Message
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		requests: make(map[string]*domain.FriendRequest),
		bans:     make(map[string]*domain.Ban),
		servers:  make(map[string]*domain.Server),
		channels: make(map[string]*domain.Channel),
		messages: make(map[string]*domain.Message),
	}
}

func (s *Store) Users() *UserRepository                   { return &UserRepository{s: s} }
func (s *Store) FriendRequests() *FriendRequestRepository { return &FriendRequestRepository{s: s} }
func (s *Store) Bans() *BanRepository                     { return &BanRepository{s: s} }
func (s *Store) Servers() *ServerRepository               { return &ServerRepository{s: s} }
func (s *Store) Members() *MemberRepository               { return &MemberRepository{s: s} }
func (s *Store) Channels() *ChannelRepository             { return &ChannelRepository{s: s} }
func (s *Store) Messages() *MessageRepository             { return &MessageRepository{s: s} }

// WithinTransaction runs fn directly. Each repository call is atomic on its
// own; a failing fn keeps the writes it already made.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func newID() string {
	return primitive.NewObjectID().Hex()
}

func checkID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return domain.ErrInvalidID
	}
	return nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
