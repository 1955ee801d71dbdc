package domain

import "time"

// Server is a community owned by one user.
type Server struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ServerMember records a user's enrolment in a server.
type ServerMember struct {
	ServerID string    `json:"server_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
	Roles    []string  `json:"roles,omitempty"`
}
