package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

// AuthOptions tunes AuthService.
type AuthOptions struct {
	// BcryptCost outside bcrypt's range means bcrypt.DefaultCost.
	BcryptCost int
	// AdminEmails are granted the admin role when they register or log in.
	// Matching ignores case.
	AdminEmails []string
}

// AuthService implements registration, login, roles and account deletion.
type AuthService struct {
	users    ports.UserRepository
	requests ports.FriendRequestRepository
	members  ports.MemberRepository
	servers  ports.ServerService
	bans     ports.BanService
	tokens   ports.TokenService
	tx       ports.Transactor
	cost     int
	admins   map[string]struct{}
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	requests ports.FriendRequestRepository,
	members ports.MemberRepository,
	servers ports.ServerService,
	bans ports.BanService,
	tokens ports.TokenService,
	tx ports.Transactor,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	admins := make(map[string]struct{}, len(opts.AdminEmails))
	for _, email := range opts.AdminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &AuthService{
		users:    users,
		requests: requests,
		members:  members,
		servers:  servers,
		bans:     bans,
		tokens:   tokens,
		tx:       tx,
		cost:     cost,
		admins:   admins,
		log:      log,
	}
}

func (s *AuthService) isAdminEmail(email string) bool {
	_, ok := s.admins[strings.ToLower(email)]
	return ok
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" || in.Birthday.IsZero() {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	taken, err := s.users.TagsForUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: list tags: %w", err)
	}
	tag, ok := nextTag(taken)
	if !ok {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	role := domain.RoleUser
	if s.isAdminEmail(email) {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     username,
		Tag:          tag,
		PasswordHash: string(hash),
		Birthday:     in.Birthday.UTC(),
		Role:         role,
		Friends:      []string{},
		Blocked:      []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Str("tag", created.Tag).Str("role", created.Role).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	status, err := s.bans.Status(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("login: ban status: %w", err)
	}
	if status.Banned {
		s.log.Info().Str("user_id", user.ID).Str("ban_type", status.Type).Msg("banned user refused login")
		return "", nil, &domain.BannedError{Status: status}
	}

	if user.Role != domain.RoleAdmin && s.isAdminEmail(user.Email) {
		if err := s.users.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return "", nil, fmt.Errorf("login: grant admin: %w", err)
		}
		user.Role = domain.RoleAdmin
		s.log.Info().Str("user_id", user.ID).Msg("admin role granted from configuration")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	return token, user, nil
}

// DeleteAccount removes the caller's own account, the servers it owns and
// every edge pointing at it: friend and blocked references, pending requests
// and memberships.
func (s *AuthService) DeleteAccount(ctx context.Context, actorID, targetID string) error {
	if actorID != targetID {
		return domain.ErrNotAccountOwner
	}
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return err
	}

	removed, err := s.servers.DeleteOwnedBy(ctx, actorID)
	if err != nil {
		return fmt.Errorf("delete account: owned servers: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Delete(ctx, actorID); err != nil {
			return err
		}
		if err := s.users.RemoveReferences(ctx, actorID); err != nil {
			return fmt.Errorf("remove references: %w", err)
		}
		if err := s.requests.DeleteInvolving(ctx, actorID); err != nil {
			return fmt.Errorf("delete friend requests: %w", err)
		}
		if err := s.members.DeleteByUser(ctx, actorID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.log.Info().Str("user_id", actorID).Int("servers_removed", removed).Msg("user deleted")
	return nil
}

// SetRole assigns role to targetID. The actor cannot change their own role.
func (s *AuthService) SetRole(ctx context.Context, actorID, targetID, role string) (*domain.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	if actorID == targetID {
		return nil, domain.ErrSelfRelation
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == role {
		return target, nil
	}
	if err := s.users.SetRole(ctx, target.ID, role); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}

	s.log.Info().Str("actor_id", actorID).Str("user_id", target.ID).Str("from", target.Role).Str("to", role).Msg("role changed")
	target.Role = role
	return target, nil
}
