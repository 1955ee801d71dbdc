package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chatcord/chat-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_Kinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.NewValidationError("name is required"), http.StatusBadRequest, "name is required"},
		{domain.ErrSelfRelation, http.StatusBadRequest, "cannot target yourself"},
		{fmt.Errorf("send: %w", domain.ErrFriendRequestExists), http.StatusConflict, "friend request already exists"},
		{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
		{domain.ErrRoleNotAllowed, http.StatusUnauthorized, "role not allowed"},
		{domain.ErrNotServerOwner, http.StatusForbidden, "you are not the owner of this server"},
		{fmt.Errorf("get: %w", domain.ErrUserNotFound), http.StatusNotFound, "user not found"},
		{domain.ErrNotFound, http.StatusNotFound, "Not Found"},
	}
	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code || body["error"] != tc.msg {
			t.Fatalf("%v: got %d %v, want %d %q", tc.err, code, body["error"], tc.code, tc.msg)
		}
	}
}

func TestHTTPErrorHandler_TemporaryBan(t *testing.T) {
	exp := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	err := &domain.BannedError{Status: domain.BanStatus{
		Banned:             true,
		Type:               domain.BanTemporary,
		Reason:             "flood",
		ExpiresAt:          &exp,
		ExpiresAtFormatted: exp.Format(domain.BanTimeFormat),
		ExpiresIn:          600,
	}}

	code, body := renderError(t, err)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body["error"] != "This user is banned temporarily until 2030-01-01 12:00:00 UTC. Reason: flood" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
	if body["expires_in"] != float64(600) || body["expires_at"] != "2030-01-01T12:00:00Z" {
		t.Fatalf("unexpected expiry fields: %+v", body)
	}
}

func TestHTTPErrorHandler_PermanentBanHasNoExpiry(t *testing.T) {
	code, body := renderError(t, &domain.BannedError{Status: domain.BanStatus{Banned: true, Type: domain.BanPermanent, Reason: "fraud"}})
	if code != http.StatusUnauthorized || body["error"] != "This user is banned permanently. Reason: fraud" {
		t.Fatalf("unexpected response: %d %+v", code, body)
	}
	if _, ok := body["expires_in"]; ok {
		t.Fatalf("permanent bans carry no expiry")
	}
}

func TestHTTPErrorHandler_EchoAndUnexpected(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"))
	if code != http.StatusTooManyRequests || body["error"] != "rate limit exceeded" {
		t.Fatalf("unexpected echo error rendering: %d %+v", code, body)
	}

	code, body = renderError(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError || body["error"] != "internal server error" {
		t.Fatalf("internal details must not leak: %d %+v", code, body)
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)
	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
