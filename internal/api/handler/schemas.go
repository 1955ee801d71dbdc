package handler

import (
	"time"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// ErrorResponse is the standard error envelope returned on all 4xx/5xx
// responses. The expiry fields are set only for temporary-ban login refusals.
type ErrorResponse struct {
	Error     string     `json:"error"`
	ExpiresIn int64      `json:"expires_in,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,max=32"`
	Password string `json:"password"`
	// Birthday is a calendar date (2006-01-02) or an RFC 3339 timestamp.
	Birthday string `json:"birthday"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Bans ---

type permanentBanRequest struct {
	Reason string `json:"reason"`
}

type temporaryBanRequest struct {
	Reason            string `json:"reason"`
	DurationInMinutes int    `json:"durationInMinutes"`
}

type banResponse struct {
	Message string      `json:"message"`
	Ban     *domain.Ban `json:"ban"`
}

// --- Friends ---

type friendRequestResponse struct {
	Message string                `json:"message"`
	Request *domain.FriendRequest `json:"request"`
}

// --- Servers & channels ---

type createServerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Icon string `json:"icon"`
}

type createChannelRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
