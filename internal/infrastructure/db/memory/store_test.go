package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
	"github.com/chatcord/chat-api/internal/infrastructure/db/memory"
)

func newUser(t *testing.T, repo *memory.UserRepository, username, tag, email string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Email: email, Username: username, Tag: tag, Role: domain.RoleUser})
	require.NoError(t, err)
	return u
}

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	first := newUser(t, users, "alice", "0001", "a@x.com")
	assert.NotEmpty(t, first.ID)
	assert.NotNil(t, first.Friends)

	_, err := users.Create(ctx, &domain.User{Email: "a@x.com", Username: "other", Tag: "0001"})
	assert.Equal(t, domain.ErrEmailTaken, err)

	_, err = users.Create(ctx, &domain.User{Email: "b@x.com", Username: "alice", Tag: "0001"})
	assert.Equal(t, domain.ErrUsernameTaken, err)

	newUser(t, users, "alice", "0002", "b@x.com")
	tags, err := users.TagsForUsername(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"0001", "0002"}, tags)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()
	u := newUser(t, users, "alice", "0001", "a@x.com")

	u.Friends = append(u.Friends, "intruder")
	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Friends)
}

func TestUserRepository_EdgesAndReferences(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()
	a := newUser(t, users, "a", "0001", "a@x.com")
	b := newUser(t, users, "b", "0001", "b@x.com")

	require.NoError(t, users.AddFriend(ctx, a.ID, b.ID))
	require.NoError(t, users.AddFriend(ctx, a.ID, b.ID))
	require.NoError(t, users.AddBlocked(ctx, b.ID, a.ID))

	got, _ := users.FindByID(ctx, a.ID)
	assert.Equal(t, []string{b.ID}, got.Friends)

	require.NoError(t, users.RemoveReferences(ctx, a.ID))
	got, _ = users.FindByID(ctx, b.ID)
	assert.Empty(t, got.Blocked)

	_, err := users.FindByID(ctx, "not-an-id")
	assert.Equal(t, domain.ErrInvalidID, err)
}

func TestFriendRequestRepository_PairUniqueness(t *testing.T) {
	ctx := context.Background()
	requests := memory.NewStore().FriendRequests()

	req, err := requests.Create(ctx, &domain.FriendRequest{SenderID: "a", ReceiverID: "b", CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = requests.Create(ctx, &domain.FriendRequest{SenderID: "b", ReceiverID: "a", CreatedAt: time.Now()})
	assert.Equal(t, domain.ErrFriendRequestExists, err)

	found, err := requests.FindBetween(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, req.ID, found.ID)

	require.NoError(t, requests.DeleteBetween(ctx, "b", "a"))
	_, err = requests.FindBetween(ctx, "a", "b")
	assert.Equal(t, domain.ErrFriendRequestNotFound, err)
}

func TestFriendRequestRepository_ListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	requests := memory.NewStore().FriendRequests()

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	older, err := requests.Create(ctx, &domain.FriendRequest{SenderID: "a", ReceiverID: "b", CreatedAt: base})
	require.NoError(t, err)
	newer, err := requests.Create(ctx, &domain.FriendRequest{SenderID: "c", ReceiverID: "b", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	incoming, err := requests.ListByReceiver(ctx, "b")
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, newer.ID, incoming[0].ID)
	assert.Equal(t, older.ID, incoming[1].ID)

	// same timestamp: the later insert wins, as with the _id sort in Mongo
	first, err := requests.Create(ctx, &domain.FriendRequest{SenderID: "d", ReceiverID: "e", CreatedAt: base})
	require.NoError(t, err)
	second, err := requests.Create(ctx, &domain.FriendRequest{SenderID: "d", ReceiverID: "f", CreatedAt: base})
	require.NoError(t, err)

	outgoing, err := requests.ListBySender(ctx, "d")
	require.NoError(t, err)
	require.Len(t, outgoing, 2)
	assert.Equal(t, second.ID, outgoing[0].ID)
	assert.Equal(t, first.ID, outgoing[1].ID)
}

func TestBanRepository_Queries(t *testing.T) {
	ctx := context.Background()
	bans := memory.NewStore().Bans()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	expired := now.Add(-time.Minute)
	soon := now.Add(time.Hour)
	later := now.Add(2 * time.Hour)
	for _, b := range []*domain.Ban{
		{UserID: "u", Reason: "old", IssuedAt: now.Add(-time.Hour), ExpiresAt: &expired},
		{UserID: "u", Reason: "soon", IssuedAt: now.Add(-2 * time.Minute), ExpiresAt: &soon},
		{UserID: "u", Reason: "later", IssuedAt: now.Add(-time.Minute), ExpiresAt: &later},
		{UserID: "other", Reason: "perm", IssuedAt: now, Permanent: true},
	} {
		_, err := bans.Create(ctx, b)
		require.NoError(t, err)
	}

	perm, err := bans.FindPermanent(ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, perm)

	latest, err := bans.FindLatestTemporary(ctx, "u", now)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "later", latest.Reason)

	history, err := bans.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "later", history[0].Reason)
}

func TestMessageRepository_List(t *testing.T) {
	ctx := context.Background()
	messages := memory.NewStore().Messages()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := messages.Create(ctx, &domain.Message{ChannelID: "c1", Content: "m", Timestamp: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	_, err := messages.Create(ctx, &domain.Message{ChannelID: "c2", Content: "x", Timestamp: base})
	require.NoError(t, err)

	got, err := messages.List(ctx, ports.MessageQuery{ChannelID: "c1", Before: base.Add(3 * time.Minute), Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, base.Add(2*time.Minute), got[0].Timestamp)
	assert.Equal(t, base.Add(time.Minute), got[1].Timestamp)

	require.NoError(t, messages.DeleteByChannels(ctx, []string{"c1"}))
	got, err = messages.List(ctx, ports.MessageQuery{ChannelID: "c1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
