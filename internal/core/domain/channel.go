package domain

import (
	"slices"
	"time"
)

// ChannelType enumerates the kinds of channel.
type ChannelType string

const (
	ChannelServerText         ChannelType = "SERVER_TEXT"
	ChannelDM                 ChannelType = "DM"
	ChannelServerVoice        ChannelType = "SERVER_VOICE"
	ChannelGroupDM            ChannelType = "GROUP_DM"
	ChannelServerCategory     ChannelType = "SERVER_CATEGORY"
	ChannelServerAnnouncement ChannelType = "SERVER_ANNOUNCEMENT"
	ChannelAnnouncementThread ChannelType = "ANNOUNCEMENT_THREAD"
	ChannelPublicThread       ChannelType = "PUBLIC_THREAD"
	ChannelPrivateThread      ChannelType = "PRIVATE_THREAD"
	ChannelServerStageVoice   ChannelType = "SERVER_STAGE_VOICE"
	ChannelServerDirectory    ChannelType = "SERVER_DIRECTORY"
	ChannelServerForum        ChannelType = "SERVER_FORUM"
)

var serverChannelTypes = []ChannelType{
	ChannelServerText,
	ChannelServerVoice,
	ChannelServerCategory,
	ChannelServerAnnouncement,
	ChannelAnnouncementThread,
	ChannelPublicThread,
	ChannelPrivateThread,
	ChannelServerStageVoice,
	ChannelServerDirectory,
	ChannelServerForum,
}

// IsPrivate reports whether access is gated by the recipient list.
func (t ChannelType) IsPrivate() bool {
	return t == ChannelDM || t == ChannelGroupDM
}

// IsServerType reports whether t may be created inside a server.
func (t ChannelType) IsServerType() bool {
	return slices.Contains(serverChannelTypes, t)
}

// Channel is a message stream, either inside a server or between recipients.
type Channel struct {
	ID            string      `json:"id"`
	Type          ChannelType `json:"type"`
	ServerID      string      `json:"server_id,omitempty"`
	Recipients    []string    `json:"recipients,omitempty"`
	Name          string      `json:"name,omitempty"`
	LastMessageID string      `json:"last_message_id,omitempty"`
	Icon          string      `json:"icon,omitempty"`
	OwnerID       string      `json:"owner_id,omitempty"`
}

// HasRecipient reports whether userID is a recipient of the channel.
func (c *Channel) HasRecipient(userID string) bool {
	return slices.Contains(c.Recipients, userID)
}

// Message is a single chat message in a channel.
type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxMessageLength bounds Message.Content in runes.
const MaxMessageLength = 2000
