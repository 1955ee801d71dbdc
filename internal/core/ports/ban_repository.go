package ports

import (
	"context"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// BanRepository persists ban records. A user may accumulate many.
type BanRepository interface {
	Create(ctx context.Context, ban *domain.Ban) (*domain.Ban, error)
	// FindPermanent returns a permanent ban for the user, or nil.
	FindPermanent(ctx context.Context, userID string) (*domain.Ban, error)
	// FindLatestTemporary returns the temporary ban expiring last among those
	// still unexpired at now, or nil.
	FindLatestTemporary(ctx context.Context, userID string, now time.Time) (*domain.Ban, error)
	// ListByUser returns every ban for the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Ban, error)
}
