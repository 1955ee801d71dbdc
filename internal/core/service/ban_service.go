package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

// BanCache abstracts the ban-status cache (Redis). Only active bans are
// cached; Get returns nil on a miss. Users without a ban always hit the
// store, so a ban issued while a lookup is in flight cannot be hidden.
type BanCache interface {
	Get(ctx context.Context, userID string) (*domain.Ban, error)
	Set(ctx context.Context, userID string, ban *domain.Ban, now time.Time) error
	Invalidate(ctx context.Context, userID string) error
}

type banService struct {
	bans  ports.BanRepository
	users ports.UserRepository
	cache BanCache
	now   func() time.Time
	log   zerolog.Logger
}

// NewBanService returns a BanService. cache may be nil.
func NewBanService(bans ports.BanRepository, users ports.UserRepository, cache BanCache, log zerolog.Logger) ports.BanService {
	return &banService{bans: bans, users: users, cache: cache, now: time.Now, log: log}
}

func (s *banService) IssuePermanent(ctx context.Context, userID, reason string) (*domain.Ban, error) {
	return s.issue(ctx, userID, reason, func(b *domain.Ban) {
		b.Permanent = true
	})
}

// IssueTemporary bans the user for minutes from now. Non-positive durations
// are rejected.
func (s *banService) IssueTemporary(ctx context.Context, userID, reason string, minutes int) (*domain.Ban, error) {
	if minutes <= 0 {
		return nil, domain.ErrInvalidBanDuration
	}
	return s.issue(ctx, userID, reason, func(b *domain.Ban) {
		expires := b.IssuedAt.Add(time.Duration(minutes) * time.Minute)
		b.ExpiresAt = &expires
	})
}

func (s *banService) issue(ctx context.Context, userID, reason string, shape func(b *domain.Ban)) (*domain.Ban, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason is required")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	ban := &domain.Ban{
		UserID:   userID,
		Reason:   reason,
		IssuedAt: s.now().UTC(),
	}
	shape(ban)

	created, err := s.bans.Create(ctx, ban)
	if err != nil {
		return nil, fmt.Errorf("issue ban: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate ban cache")
		}
	}

	evt := s.log.Info().Str("user_id", userID).Bool("permanent", created.Permanent)
	if created.ExpiresAt != nil {
		evt = evt.Time("expires_at", *created.ExpiresAt)
	}
	evt.Msg("ban issued")
	return created, nil
}

// Status evaluates the user's ban state: a permanent ban first, otherwise the
// latest-expiring unexpired temporary ban.
func (s *banService) Status(ctx context.Context, userID string) (domain.BanStatus, error) {
	now := s.now().UTC()

	if s.cache != nil {
		ban, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("ban cache lookup failed, querying store")
		} else if ban != nil && ban.ActiveAt(now) {
			return domain.StatusOf(ban, now), nil
		}
	}

	ban, err := s.governing(ctx, userID, now)
	if err != nil {
		return domain.BanStatus{}, err
	}

	if s.cache != nil && ban != nil {
		if err := s.cache.Set(ctx, userID, ban, now); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache ban status")
		}
	}
	return domain.StatusOf(ban, now), nil
}

func (s *banService) governing(ctx context.Context, userID string, now time.Time) (*domain.Ban, error) {
	perm, err := s.bans.FindPermanent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ban status: permanent: %w", err)
	}
	if perm != nil {
		return perm, nil
	}

	temp, err := s.bans.FindLatestTemporary(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("ban status: temporary: %w", err)
	}
	return temp, nil
}

func (s *banService) History(ctx context.Context, userID string) ([]*domain.Ban, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	bans, err := s.bans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ban history: %w", err)
	}
	return bans, nil
}
