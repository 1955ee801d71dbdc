package memory

import (
	"context"
	"sort"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// BanRepository is the in-process ports.BanRepository.
type BanRepository struct {
	s *Store
}

func cloneBan(b *domain.Ban) *domain.Ban {
	c := *b
	if b.ExpiresAt != nil {
		t := *b.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}

func (r *BanRepository) Create(_ context.Context, ban *domain.Ban) (*domain.Ban, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := cloneBan(ban)
	c.ID = newID()
	r.s.bans[c.ID] = c
	return cloneBan(c), nil
}

func (r *BanRepository) forUser(userID string) []domain.Ban {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Ban
	for _, b := range r.s.bans {
		if b.UserID == userID {
			out = append(out, *cloneBan(b))
		}
	}
	return out
}

func (r *BanRepository) FindPermanent(_ context.Context, userID string) (*domain.Ban, error) {
	for _, b := range r.forUser(userID) {
		if b.Permanent {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *BanRepository) FindLatestTemporary(_ context.Context, userID string, now time.Time) (*domain.Ban, error) {
	var temps []domain.Ban
	for _, b := range r.forUser(userID) {
		if !b.Permanent {
			temps = append(temps, b)
		}
	}
	return domain.ResolveBan(temps, now), nil
}

func (r *BanRepository) ListByUser(_ context.Context, userID string) ([]*domain.Ban, error) {
	bans := r.forUser(userID)
	sort.Slice(bans, func(i, j int) bool { return bans[i].IssuedAt.After(bans[j].IssuedAt) })

	out := make([]*domain.Ban, 0, len(bans))
	for i := range bans {
		out = append(out, &bans[i])
	}
	return out, nil
}
