package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chatcord/chat-api/internal/core/domain"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	user := &domain.User{ID: "507f1f77bcf86cd799439011", Role: domain.RoleModerator}

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != domain.RoleModerator {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected token id")
	}
	if d := time.Until(claims.ExpiresAt); d <= 0 || d > time.Hour {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	user := &domain.User{ID: "u1", Role: domain.RoleUser}

	a, _ := svc.Issue(user)
	b, _ := svc.Issue(user)
	if a == b {
		t.Fatalf("expected distinct tokens")
	}
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	user := &domain.User{ID: "u1", Role: domain.RoleUser}

	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	other, _ := NewJWTService("other", time.Hour).Issue(&domain.User{ID: "u1"})

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": domain.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	noUserToken, _ := noUser.SignedString([]byte("secret"))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"})
	noExpToken, _ := noExp.SignedString([]byte("secret"))

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	hs512Token, _ := hs512.SignedString([]byte("secret"))

	cases := map[string]string{
		"wrong secret":    other,
		"missing user_id": noUserToken,
		"missing exp":     noExpToken,
		"other algorithm": hs512Token,
		"garbage":         "not.a.token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(token); err != domain.ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	if _, err := svc.Verify(""); err != domain.ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
