package memory

import (
	"context"
	"sort"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// FriendRequestRepository is the in-process ports.FriendRequestRepository.
type FriendRequestRepository struct {
	s *Store
}

func cloneRequest(fr *domain.FriendRequest) *domain.FriendRequest {
	c := *fr
	return &c
}

func (r *FriendRequestRepository) Create(_ context.Context, req *domain.FriendRequest) (*domain.FriendRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := domain.PairKey(req.SenderID, req.ReceiverID)
	for _, fr := range r.s.requests {
		if domain.PairKey(fr.SenderID, fr.ReceiverID) == key {
			return nil, domain.ErrFriendRequestExists
		}
	}

	c := cloneRequest(req)
	c.ID = newID()
	r.s.requests[c.ID] = c
	return cloneRequest(c), nil
}

func (r *FriendRequestRepository) FindByID(_ context.Context, id string) (*domain.FriendRequest, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	fr, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrFriendRequestNotFound
	}
	return cloneRequest(fr), nil
}

func (r *FriendRequestRepository) FindBetween(_ context.Context, a, b string) (*domain.FriendRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key := domain.PairKey(a, b)
	for _, fr := range r.s.requests {
		if domain.PairKey(fr.SenderID, fr.ReceiverID) == key {
			return cloneRequest(fr), nil
		}
	}
	return nil, domain.ErrFriendRequestNotFound
}

func (r *FriendRequestRepository) list(match func(fr *domain.FriendRequest) bool) []*domain.FriendRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.FriendRequest, 0)
	for _, fr := range r.s.requests {
		if match(fr) {
			out = append(out, cloneRequest(fr))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *FriendRequestRepository) ListByReceiver(_ context.Context, receiverID string) ([]*domain.FriendRequest, error) {
	return r.list(func(fr *domain.FriendRequest) bool { return fr.ReceiverID == receiverID }), nil
}

func (r *FriendRequestRepository) ListBySender(_ context.Context, senderID string) ([]*domain.FriendRequest, error) {
	return r.list(func(fr *domain.FriendRequest) bool { return fr.SenderID == senderID }), nil
}

func (r *FriendRequestRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.requests[id]; !ok {
		return domain.ErrFriendRequestNotFound
	}
	delete(r.s.requests, id)
	return nil
}

func (r *FriendRequestRepository) deleteWhere(match func(fr *domain.FriendRequest) bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, fr := range r.s.requests {
		if match(fr) {
			delete(r.s.requests, id)
		}
	}
}

func (r *FriendRequestRepository) DeleteBetween(_ context.Context, a, b string) error {
	key := domain.PairKey(a, b)
	r.deleteWhere(func(fr *domain.FriendRequest) bool {
		return domain.PairKey(fr.SenderID, fr.ReceiverID) == key
	})
	return nil
}

func (r *FriendRequestRepository) DeleteInvolving(_ context.Context, userID string) error {
	r.deleteWhere(func(fr *domain.FriendRequest) bool {
		return fr.SenderID == userID || fr.ReceiverID == userID
	})
	return nil
}
