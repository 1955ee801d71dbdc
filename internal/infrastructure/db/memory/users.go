package memory

import (
	"context"
	"slices"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// UserRepository is the in-process ports.UserRepository.
type UserRepository struct {
	s *Store
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Friends = slices.Clone(u.Friends)
	c.Blocked = slices.Clone(u.Blocked)
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username && u.Tag == user.Tag {
			return nil, domain.ErrUsernameTaken
		}
	}

	c := cloneUser(user)
	c.ID = newID()
	if c.Friends == nil {
		c.Friends = []string{}
	}
	if c.Blocked == nil {
		c.Blocked = []string{}
	}
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepository) TagsForUsername(_ context.Context, username string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var tags []string
	for _, u := range r.s.users {
		if u.Username == username {
			tags = append(tags, u.Tag)
		}
	}
	return tags, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) SetRole(_ context.Context, id, role string) error {
	return r.update(id, func(u *domain.User) { u.Role = role })
}

func (r *UserRepository) update(id string, fn func(u *domain.User)) error {
	if err := checkID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) AddFriend(_ context.Context, userID, friendID string) error {
	return r.update(userID, func(u *domain.User) {
		if !slices.Contains(u.Friends, friendID) {
			u.Friends = append(u.Friends, friendID)
		}
	})
}

func (r *UserRepository) RemoveFriend(_ context.Context, userID, friendID string) error {
	return r.update(userID, func(u *domain.User) {
		u.Friends = without(u.Friends, friendID)
	})
}

func (r *UserRepository) AddBlocked(_ context.Context, userID, blockedID string) error {
	return r.update(userID, func(u *domain.User) {
		if !slices.Contains(u.Blocked, blockedID) {
			u.Blocked = append(u.Blocked, blockedID)
		}
	})
}

func (r *UserRepository) RemoveBlocked(_ context.Context, userID, blockedID string) error {
	return r.update(userID, func(u *domain.User) {
		u.Blocked = without(u.Blocked, blockedID)
	})
}

func (r *UserRepository) RemoveReferences(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		u.Friends = without(u.Friends, id)
		u.Blocked = without(u.Blocked, id)
	}
	return nil
}
