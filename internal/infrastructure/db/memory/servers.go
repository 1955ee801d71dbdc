package memory

import (
	"context"
	"slices"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// ServerRepository is the in-process ports.ServerRepository.
type ServerRepository struct {
	s *Store
}

func (r *ServerRepository) Create(_ context.Context, server *domain.Server) (*domain.Server, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *server
	c.ID = newID()
	r.s.servers[c.ID] = &c
	out := c
	return &out, nil
}

func (r *ServerRepository) FindByID(_ context.Context, id string) (*domain.Server, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	srv, ok := r.s.servers[id]
	if !ok {
		return nil, domain.ErrServerNotFound
	}
	c := *srv
	return &c, nil
}

func (r *ServerRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Server, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Server, 0, len(ids))
	for _, id := range ids {
		if srv, ok := r.s.servers[id]; ok {
			c := *srv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ServerRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Server, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Server, 0)
	for _, srv := range r.s.servers {
		if srv.OwnerID == ownerID {
			c := *srv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ServerRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.servers[id]; !ok {
		return domain.ErrServerNotFound
	}
	delete(r.s.servers, id)
	return nil
}

// MemberRepository is the in-process ports.MemberRepository.
type MemberRepository struct {
	s *Store
}

func (r *MemberRepository) Add(_ context.Context, member *domain.ServerMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.members {
		if m.ServerID == member.ServerID && m.UserID == member.UserID {
			return domain.ErrAlreadyMember
		}
	}
	c := *member
	c.Roles = slices.Clone(member.Roles)
	r.s.members = append(r.s.members, &c)
	return nil
}

func (r *MemberRepository) removeWhere(match func(m *domain.ServerMember) bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.members = slices.DeleteFunc(r.s.members, match)
}

func (r *MemberRepository) Remove(_ context.Context, serverID, userID string) error {
	r.removeWhere(func(m *domain.ServerMember) bool { return m.ServerID == serverID && m.UserID == userID })
	return nil
}

func (r *MemberRepository) IsMember(_ context.Context, serverID, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.members {
		if m.ServerID == serverID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemberRepository) ListByServer(_ context.Context, serverID string) ([]*domain.ServerMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.ServerMember, 0)
	for _, m := range r.s.members {
		if m.ServerID == serverID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *MemberRepository) ServerIDsForUser(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	for _, m := range r.s.members {
		if m.UserID == userID {
			ids = append(ids, m.ServerID)
		}
	}
	return ids, nil
}

func (r *MemberRepository) DeleteByServer(_ context.Context, serverID string) error {
	r.removeWhere(func(m *domain.ServerMember) bool { return m.ServerID == serverID })
	return nil
}

func (r *MemberRepository) DeleteByUser(_ context.Context, userID string) error {
	r.removeWhere(func(m *domain.ServerMember) bool { return m.UserID == userID })
	return nil
}
