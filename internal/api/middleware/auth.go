package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

// Auth verifies the bearer token, loads the user it names and injects both
// into the context. When roles are given the live user record must hold one
// of them; a mismatch is reported as unauthorized, not forbidden.
func Auth(tokens ports.TokenService, users ports.UserRepository, roles ...string) echo.MiddlewareFunc {
	requireRole := RBAC(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		gated := next
		if len(roles) > 0 {
			gated = requireRole(next)
		}

		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				return err
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return err
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserKey, user)
			return gated(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", domain.ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// CurrentUser returns the user injected by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}
