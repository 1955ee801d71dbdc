package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// banCacheTTL bounds how long a resolved ban lives in the cache.
const banCacheTTL = 10 * time.Minute

// BanCache caches the governing active ban per user. Users without a ban
// are never stored.
// Key format: ban:status:<user_id>
type BanCache struct {
	client *redis.Client
}

// NewBanCache creates a BanCache wrapping the given Redis client.
func NewBanCache(client *redis.Client) *BanCache {
	return &BanCache{client: client}
}

// Get returns the cached ban, or nil on a miss.
func (c *BanCache) Get(ctx context.Context, userID string) (*domain.Ban, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ban cache get: %w", err)
	}

	var ban domain.Ban
	if err := json.Unmarshal(raw, &ban); err != nil {
		return nil, fmt.Errorf("ban cache decode: %w", err)
	}
	return &ban, nil
}

// Set stores ban for userID. Temporary bans expire from the cache no later
// than the ban itself; nil and expired bans are not stored.
func (c *BanCache) Set(ctx context.Context, userID string, ban *domain.Ban, now time.Time) error {
	ttl := entryTTL(ban, now)
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(ban)
	if err != nil {
		return fmt.Errorf("ban cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("ban cache set: %w", err)
	}
	return nil
}

func (c *BanCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("ban cache invalidate: %w", err)
	}
	return nil
}

func (c *BanCache) key(userID string) string {
	return fmt.Sprintf("ban:status:%s", userID)
}

func entryTTL(ban *domain.Ban, now time.Time) time.Duration {
	switch {
	case ban == nil:
		return 0
	case ban.Permanent || ban.ExpiresAt == nil:
		return banCacheTTL
	}
	remaining := ban.ExpiresAt.Sub(now)
	if remaining > banCacheTTL {
		return banCacheTTL
	}
	return remaining
}
