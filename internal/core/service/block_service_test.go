package service

import (
	"context"
	"testing"

	"github.com/chatcord/chat-api/internal/core/domain"
)

func TestBlockService_BlockClearsRelations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")
	carol := e.register(t, "carol", "c@x.com")

	if _, err := e.friends.Send(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	e.makeFriends(t, bob, carol)

	if err := e.blocks.Block(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("block alice: %v", err)
	}
	if e.pendingBetween(t, alice.ID, bob.ID) {
		t.Fatalf("pending request must be deleted on block")
	}

	if err := e.blocks.Block(ctx, carol.ID, bob.ID); err != nil {
		t.Fatalf("block bob: %v", err)
	}
	if e.user(t, bob.ID).IsFriend(carol.ID) || e.user(t, carol.ID).IsFriend(bob.ID) {
		t.Fatalf("friendship must end on block")
	}
	if !e.user(t, carol.ID).HasBlocked(bob.ID) {
		t.Fatalf("expected bob in carol's blocked set")
	}
	if e.user(t, bob.ID).HasBlocked(carol.ID) {
		t.Fatalf("blocking is one-directional")
	}

	blocked, err := e.blocks.List(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(blocked) != 1 || blocked[0].ID != alice.ID {
		t.Fatalf("unexpected blocked list: %+v", blocked)
	}
}

func TestBlockService_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	if err := e.blocks.Block(ctx, alice.ID, alice.ID); err != domain.ErrSelfRelation {
		t.Fatalf("expected ErrSelfRelation, got %v", err)
	}
	if err := e.blocks.Unblock(ctx, alice.ID, bob.ID); err != domain.ErrNotBlocked {
		t.Fatalf("expected ErrNotBlocked, got %v", err)
	}
	if err := e.blocks.Block(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := e.blocks.Block(ctx, alice.ID, bob.ID); err != domain.ErrAlreadyBlocked {
		t.Fatalf("expected ErrAlreadyBlocked, got %v", err)
	}
}

func TestBlockService_Unblock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com")
	bob := e.register(t, "bob", "b@x.com")

	if err := e.blocks.Block(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := e.blocks.Unblock(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if e.user(t, alice.ID).HasBlocked(bob.ID) {
		t.Fatalf("expected bob unblocked")
	}
	if _, err := e.friends.Send(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("requests allowed after unblock: %v", err)
	}
}
