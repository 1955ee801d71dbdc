package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chatcord/chat-api/internal/core/domain"
)

func TestFriendService_SendAndAccept(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	req, err := e.friends.Send(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if req.SenderID != alice.ID || req.ReceiverID != bob.ID {
		t.Fatalf("unexpected request: %+v", req)
	}

	incoming, err := e.friends.ListIncoming(ctx, bob.ID)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 1 || incoming[0].User.ID != alice.ID || incoming[0].User.Tag != "0001" {
		t.Fatalf("unexpected incoming: %+v", incoming)
	}
	outgoing, err := e.friends.ListOutgoing(ctx, alice.ID)
	if err != nil {
		t.Fatalf("outgoing: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].User.ID != bob.ID {
		t.Fatalf("unexpected outgoing: %+v", outgoing)
	}

	if err := e.friends.Accept(ctx, alice.ID, req.ID); err != domain.ErrNotRequestReceiver {
		t.Fatalf("sender must not accept, got %v", err)
	}
	if err := e.friends.Accept(ctx, bob.ID, req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if !e.user(t, alice.ID).IsFriend(bob.ID) || !e.user(t, bob.ID).IsFriend(alice.ID) {
		t.Fatalf("friendship must be symmetric")
	}
	if e.pendingBetween(t, alice.ID, bob.ID) {
		t.Fatalf("accepted request must be removed")
	}

	friends, err := e.friends.ListFriends(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != alice.ID || friends[0].Username != "alice" {
		t.Fatalf("unexpected friends: %+v", friends)
	}
}

func TestFriendService_Send_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")
	carol := e.register(t, "carol", "c@x.com")

	if _, err := e.friends.Send(ctx, alice.ID, alice.ID); err != domain.ErrSelfRelation {
		t.Fatalf("expected ErrSelfRelation, got %v", err)
	}
	if _, err := e.friends.Send(ctx, alice.ID, "507f1f77bcf86cd799439011"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := e.friends.Send(ctx, alice.ID, "nope"); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	if _, err := e.friends.Send(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := e.friends.Send(ctx, alice.ID, bob.ID); err != domain.ErrFriendRequestExists {
		t.Fatalf("expected ErrFriendRequestExists, got %v", err)
	}
	if _, err := e.friends.Send(ctx, bob.ID, alice.ID); err != domain.ErrFriendRequestExists {
		t.Fatalf("reverse direction must also conflict, got %v", err)
	}

	e.makeFriends(t, alice, carol)
	if _, err := e.friends.Send(ctx, carol.ID, alice.ID); err != domain.ErrAlreadyFriends {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestFriendService_Send_Blocked(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	if err := e.blocks.Block(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := e.friends.Send(ctx, alice.ID, bob.ID); err != domain.ErrBlockedRelation {
		t.Fatalf("blocked sender: expected ErrBlockedRelation, got %v", err)
	}
	if _, err := e.friends.Send(ctx, bob.ID, alice.ID); err != domain.ErrBlockedRelation {
		t.Fatalf("blocking sender: expected ErrBlockedRelation, got %v", err)
	}
}

func TestFriendService_DenyAndRevoke(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	req, err := e.friends.Send(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := e.friends.Deny(ctx, alice.ID, req.ID); err != domain.ErrNotRequestReceiver {
		t.Fatalf("expected ErrNotRequestReceiver, got %v", err)
	}
	if err := e.friends.Deny(ctx, bob.ID, req.ID); err != nil {
		t.Fatalf("deny: %v", err)
	}
	if e.pendingBetween(t, alice.ID, bob.ID) {
		t.Fatalf("denied request must be removed")
	}
	if e.user(t, alice.ID).IsFriend(bob.ID) {
		t.Fatalf("deny must not create friendship")
	}
	if err := e.friends.Deny(ctx, bob.ID, req.ID); !errors.Is(err, domain.ErrFriendRequestNotFound) {
		t.Fatalf("expected ErrFriendRequestNotFound, got %v", err)
	}

	req, err = e.friends.Send(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("resend after deny: %v", err)
	}
	if err := e.friends.Revoke(ctx, bob.ID, req.ID); err != domain.ErrNotRequestSender {
		t.Fatalf("expected ErrNotRequestSender, got %v", err)
	}
	if err := e.friends.Revoke(ctx, alice.ID, req.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if e.pendingBetween(t, alice.ID, bob.ID) {
		t.Fatalf("revoked request must be removed")
	}
}

func TestFriendService_Remove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	if err := e.friends.Remove(ctx, alice.ID, bob.ID); err != domain.ErrNotFriends {
		t.Fatalf("expected ErrNotFriends, got %v", err)
	}

	e.makeFriends(t, alice, bob)
	if err := e.friends.Remove(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if e.user(t, alice.ID).IsFriend(bob.ID) || e.user(t, bob.ID).IsFriend(alice.ID) {
		t.Fatalf("friendship must be removed on both sides")
	}
	if err := e.friends.Remove(ctx, alice.ID, alice.ID); err != domain.ErrSelfRelation {
		t.Fatalf("expected ErrSelfRelation, got %v", err)
	}
}

func TestFriendService_ListIncoming_DropsDeletedSenders(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	if _, err := e.friends.Send(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := e.store.Users().Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	incoming, err := e.friends.ListIncoming(ctx, bob.ID)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 0 {
		t.Fatalf("expected no views, got %+v", incoming)
	}
}
