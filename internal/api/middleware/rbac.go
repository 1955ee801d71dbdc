package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// RBAC enforces role-based access control against the user loaded by Auth.
// It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrRoleNotAllowed
			}
			return next(c)
		}
	}
}
