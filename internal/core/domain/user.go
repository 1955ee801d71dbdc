package domain

import (
	"slices"
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account with its relationship sets.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Tag          string    `json:"tag"`
	PasswordHash string    `json:"-"`
	Birthday     time.Time `json:"birthday"`
	Role         string    `json:"role"`
	Friends      []string  `json:"friends"`
	Blocked      []string  `json:"blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsFriend reports whether id is in the user's friend set.
func (u *User) IsFriend(id string) bool {
	return slices.Contains(u.Friends, id)
}

// HasBlocked reports whether the user has blocked id.
func (u *User) HasBlocked(id string) bool {
	return slices.Contains(u.Blocked, id)
}

// Public returns the view of the user other accounts may see.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Tag: u.Tag}
}

// PublicUser is the profile shown in friend, block and request lists.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Tag      string `json:"tag"`
}
