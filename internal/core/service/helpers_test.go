package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
	"github.com/chatcord/chat-api/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// env wires every service against one in-memory store.
type env struct {
	store    *memory.Store
	tokens   *JWTService
	auth     *AuthService
	bans     ports.BanService
	friends  ports.FriendService
	blocks   ports.BlockService
	servers  ports.ServerService
	channels ports.ChannelService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWith(t, AuthOptions{BcryptCost: bcrypt.MinCost})
}

func newEnvWith(t *testing.T, opts AuthOptions) *env {
	t.Helper()
	st := memory.NewStore()
	tokens := NewJWTService("secret", time.Hour)
	bans := NewBanService(st.Bans(), st.Users(), nil, discardLogger)
	servers := NewServerService(st.Servers(), st.Members(), st.Channels(), st.Messages(), st, discardLogger)
	return &env{
		store:    st,
		tokens:   tokens,
		bans:     bans,
		auth:     NewAuthService(st.Users(), st.FriendRequests(), st.Members(), servers, bans, tokens, st, opts, discardLogger),
		friends:  NewFriendService(st.Users(), st.FriendRequests(), st, discardLogger),
		blocks:   NewBlockService(st.Users(), st.FriendRequests(), st, discardLogger),
		servers:  servers,
		channels: NewChannelService(st.Channels(), st.Messages(), st.Servers(), st.Members(), st.Users(), discardLogger),
	}
}

func (e *env) register(t *testing.T, username, email string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), ports.RegisterInput{
		Email:    email,
		Username: username,
		Password: "pass123",
		Birthday: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (e *env) user(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := e.store.Users().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find user %s: %v", id, err)
	}
	return u
}

// friends makes a and b friends through the request/accept flow.
func (e *env) makeFriends(t *testing.T, a, b *domain.User) {
	t.Helper()
	ctx := context.Background()
	req, err := e.friends.Send(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := e.friends.Accept(ctx, b.ID, req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
}

func (e *env) pendingBetween(t *testing.T, a, b string) bool {
	t.Helper()
	_, err := e.store.FriendRequests().FindBetween(context.Background(), a, b)
	return err == nil
}
