package model

import "time"

const (
	SenderUser  = "user"
	SenderAdmin = "admin"

	// AdminID is the sender/receiver id recorded for the admin party.
	AdminID = "admin"
)

// ChatMessage represents a stored row of the messages table.
type ChatMessage struct {
	ID         int64     `json:"id"`
	SenderType string    `json:"sender_type"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChatMessage is the payload for storing a relayed message.
type NewChatMessage struct {
	SenderType string
	SenderID   string
	ReceiverID string
	Message    string
}

// LegacyChat is a row of the flat chats table used by POST /chat.
// NULL columns come back as JSON null.
type LegacyChat struct {
	ID      int64   `json:"id"`
	Sender  *string `json:"sender"`
	Message *string `json:"message"`
}

type LegacyChatRequest struct {
	Sender  *string `json:"sender"`
	Message *string `json:"message"`
}

type Stats struct {
	DistributorsTotal int64 `json:"distributors_total"`
	FarmersTotal      int64 `json:"farmers_total"`
	MessagesTotal     int64 `json:"messages_total"`
	ConnectionsOnline int   `json:"connections_online"`
	AdminsOnline      int   `json:"admins_online"`
}
