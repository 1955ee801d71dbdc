package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

// ChannelRepository is the in-process ports.ChannelRepository.
type ChannelRepository struct {
	s *Store
}

func cloneChannel(ch *domain.Channel) *domain.Channel {
	c := *ch
	c.Recipients = slices.Clone(ch.Recipients)
	return &c
}

func (r *ChannelRepository) Create(_ context.Context, ch *domain.Channel) (*domain.Channel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := cloneChannel(ch)
	c.ID = newID()
	r.s.channels[c.ID] = c
	return cloneChannel(c), nil
}

func (r *ChannelRepository) FindByID(_ context.Context, id string) (*domain.Channel, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ch, ok := r.s.channels[id]
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	return cloneChannel(ch), nil
}

func (r *ChannelRepository) FindDM(_ context.Context, a, b string) (*domain.Channel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, ch := range r.s.channels {
		if ch.Type == domain.ChannelDM && len(ch.Recipients) == 2 && ch.HasRecipient(a) && ch.HasRecipient(b) {
			return cloneChannel(ch), nil
		}
	}
	return nil, domain.ErrChannelNotFound
}

func (r *ChannelRepository) ListByServer(_ context.Context, serverID string) ([]*domain.Channel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Channel, 0)
	for _, ch := range r.s.channels {
		if ch.ServerID == serverID {
			out = append(out, cloneChannel(ch))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ChannelRepository) SetLastMessage(_ context.Context, channelID, messageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ch, ok := r.s.channels[channelID]
	if !ok {
		return domain.ErrChannelNotFound
	}
	ch.LastMessageID = messageID
	return nil
}

func (r *ChannelRepository) DeleteByServer(_ context.Context, serverID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, ch := range r.s.channels {
		if ch.ServerID == serverID {
			delete(r.s.channels, id)
		}
	}
	return nil
}

// MessageRepository is the in-process ports.MessageRepository.
type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Create(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *msg
	c.ID = newID()
	r.s.messages[c.ID] = &c
	out := c
	return &out, nil
}

func (r *MessageRepository) List(_ context.Context, q ports.MessageQuery) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Message, 0)
	for _, m := range r.s.messages {
		if m.ChannelID != q.ChannelID {
			continue
		}
		if !q.Before.IsZero() && !m.Timestamp.Before(q.Before) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *MessageRepository) DeleteByChannels(_ context.Context, channelIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, m := range r.s.messages {
		if slices.Contains(channelIDs, m.ChannelID) {
			delete(r.s.messages, id)
		}
	}
	return nil
}
