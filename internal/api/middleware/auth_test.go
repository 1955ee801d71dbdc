package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
	"github.com/chatcord/chat-api/internal/core/service"
	"github.com/chatcord/chat-api/internal/infrastructure/db/memory"
)

type authFixture struct {
	tokens *service.JWTService
	users  *memory.UserRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	return &authFixture{
		tokens: service.NewJWTService("secret", time.Hour),
		users:  memory.NewStore().Users(),
	}
}

func (f *authFixture) createUser(t *testing.T, role string) (*domain.User, string) {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		Email:    role + "@x.com",
		Username: role,
		Tag:      "0001",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := f.tokens.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return u, token
}

func run(mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, mw(next)(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	f := newAuthFixture(t)
	user, token := f.createUser(t, domain.RoleUser)

	called := false
	rec, err := run(Auth(f.tokens, f.users), "Bearer "+token, func(c echo.Context) error {
		called = true
		got := CurrentUser(c)
		if got == nil || got.ID != user.ID {
			t.Fatalf("user not set: %+v", got)
		}
		claims, _ := c.Get(ClaimsKey).(*ports.Claims)
		if claims == nil || claims.UserID != user.ID {
			t.Fatalf("claims not set: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.createUser(t, domain.RoleUser)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{name: "missing header", header: "", want: domain.ErrMissingToken},
		{name: "wrong scheme", header: "Token abc", want: domain.ErrMissingToken},
		{name: "empty bearer", header: "Bearer   ", want: domain.ErrMissingToken},
		{name: "garbage token", header: "Bearer not-a-token", want: domain.ErrInvalidToken},
		{name: "lowercase scheme", header: "bearer " + token, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(Auth(f.tokens, f.users), tc.header, func(c echo.Context) error {
				if tc.want != nil {
					t.Fatalf("should not reach next")
				}
				return nil
			})
			if err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	user, token := f.createUser(t, domain.RoleUser)
	if err := f.users.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := run(Auth(f.tokens, f.users), "Bearer "+token, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthMiddleware_RoleAllowList(t *testing.T) {
	f := newAuthFixture(t)
	_, userToken := f.createUser(t, domain.RoleUser)
	_, modToken := f.createUser(t, domain.RoleModerator)

	mw := Auth(f.tokens, f.users, domain.RoleModerator, domain.RoleAdmin)

	_, err := run(mw, "Bearer "+userToken, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err != domain.ErrRoleNotAllowed {
		t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("role mismatch must classify as unauthorized")
	}

	called := false
	if _, err := run(mw, "Bearer "+modToken, func(c echo.Context) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("moderator rejected: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}
