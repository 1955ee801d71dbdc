package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/api/middleware"
	"github.com/chatcord/chat-api/internal/core/domain"
)

// actor returns the user attached by the Auth middleware. A missing user
// means the route was registered without Auth; callers get a 401 rather than
// a nil dereference.
func actor(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, domain.ErrMissingToken
	}
	return u, nil
}
