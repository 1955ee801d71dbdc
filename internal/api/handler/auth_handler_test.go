package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	deleteFn   func(ctx context.Context, actorID, targetID string) error
	setRoleFn  func(ctx context.Context, actorID, targetID, role string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) DeleteAccount(ctx context.Context, actorID, targetID string) error {
	return s.deleteFn(ctx, actorID, targetID)
}

func (s *stubAuthService) SetRole(ctx context.Context, actorID, targetID, role string) (*domain.User, error) {
	return s.setRoleFn(ctx, actorID, targetID, role)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "a@example.com" || in.Password != "secret" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.Birthday.Equal(time.Date(1999, 4, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected birthday: %s", in.Birthday)
			}
			return &domain.User{ID: "u1", Username: in.Username, Tag: "0001", Role: domain.RoleUser, PasswordHash: "hash"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"secret","email":"a@example.com","birthday":"1999-04-01"}`, nil)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	decode(t, rec, &resp)
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || user["tag"] != "0001" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
	if _, ok := resp["token"]; ok {
		t.Fatalf("register must not issue a token")
	}
}

func TestAuthHandler_Register_RFC3339Birthday(t *testing.T) {
	var got time.Time
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			got = in.Birthday
			return &domain.User{ID: "u1"}, nil
		},
	}

	c, _ := newContext(http.MethodPost, "/auth/register",
		`{"username":"a","password":"p","email":"a@x.com","birthday":"2000-01-02T03:04:05+02:00"}`, nil)
	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !got.Equal(time.Date(2000, 1, 2, 1, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected birthday %s", got)
	}
}

func TestAuthHandler_Register_RejectedBeforeService(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	cases := []struct {
		name, body, want string
	}{
		{"malformed json", `{"username":`, "invalid payload"},
		{"bad email", `{"username":"a","password":"p","email":"nope","birthday":"2000-01-01"}`, "email must be a valid email"},
		{"bad birthday", `{"username":"a","password":"p","email":"a@x.com","birthday":"01/02/2000"}`, "birthday"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/auth/register", tc.body, nil)
			expectValidation(t, handler.Register(c), tc.want)
		})
	}
}

func TestAuthHandler_Register_ServiceError(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}

	c, _ := newContext(http.MethodPost, "/auth/register", `{"username":"bob","password":"p","email":"b@x.com","birthday":"2000-01-01"}`, nil)
	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "a@x.com" || password != "secret" {
				t.Fatalf("unexpected credentials %s/%s", email, password)
			}
			return "token-123", alice, nil
		},
	}

	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret"}`, nil)
	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	decode(t, rec, &resp)
	if resp.Token != "token-123" || resp.User == nil || resp.User.ID != alice.ID {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_Banned(t *testing.T) {
	banned := &domain.BannedError{Status: domain.BanStatus{Banned: true, Type: domain.BanPermanent, Reason: "spam"}}
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, banned
		},
	}

	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret"}`, nil)
	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, banned) {
		t.Fatalf("expected ban error, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newContext(http.MethodPost, "/auth/logout", "", alice)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/auth/me", "", alice)
	if err := handler.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	var me domain.User
	decode(t, rec, &me)
	if me.ID != alice.ID || me.Tag != alice.Tag {
		t.Fatalf("unexpected profile: %+v", me)
	}

	c, _ = newContext(http.MethodGet, "/auth/me", "", nil)
	if err := handler.Me(c); err != domain.ErrMissingToken {
		t.Fatalf("expected ErrMissingToken without a user, got %v", err)
	}
}

func TestAuthHandler_Delete(t *testing.T) {
	var gotActor, gotTarget string
	stub := &stubAuthService{
		deleteFn: func(ctx context.Context, actorID, targetID string) error {
			gotActor, gotTarget = actorID, targetID
			return nil
		},
	}

	c, rec := newContext(http.MethodDelete, "/auth/u-alice", "", alice)
	withParam(c, "userId", "u-alice")
	if err := NewAuthHandler(stub).Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotActor != alice.ID || gotTarget != "u-alice" {
		t.Fatalf("unexpected ids %s/%s", gotActor, gotTarget)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_SetRole(t *testing.T) {
	var gotActor, gotTarget, gotRole string
	stub := &stubAuthService{
		setRoleFn: func(ctx context.Context, actorID, targetID, role string) (*domain.User, error) {
			gotActor, gotTarget, gotRole = actorID, targetID, role
			return &domain.User{ID: targetID, Username: "bob", Tag: "0002", Role: role}, nil
		},
	}

	c, rec := newContext(http.MethodPut, "/auth/u-bob/role", `{"role":"moderator"}`, alice)
	withParam(c, "userId", "u-bob")
	if err := NewAuthHandler(stub).SetRole(c); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if gotActor != alice.ID || gotTarget != "u-bob" || gotRole != domain.RoleModerator {
		t.Fatalf("unexpected call %s/%s/%s", gotActor, gotTarget, gotRole)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	decode(t, rec, &resp)
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != domain.RoleModerator {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_SetRole_MissingRole(t *testing.T) {
	stub := &stubAuthService{
		setRoleFn: func(ctx context.Context, actorID, targetID, role string) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	c, _ := newContext(http.MethodPut, "/auth/u-bob/role", `{}`, alice)
	withParam(c, "userId", "u-bob")
	expectValidation(t, NewAuthHandler(stub).SetRole(c), "role is required")
}
