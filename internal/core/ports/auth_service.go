package ports

import (
	"context"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Birthday time.Time
}

// AuthService implements account registration, login and deletion.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a credential, or a *domain.BannedError when the account
	// is under an active ban.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	DeleteAccount(ctx context.Context, actorID, targetID string) error
	// SetRole changes another account's role. Callers gate it on the admin
	// role.
	SetRole(ctx context.Context, actorID, targetID, role string) (*domain.User, error)
}

// Claims is the identity carried by a verified credential.
type Claims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed bearer credentials.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*Claims, error)
}
