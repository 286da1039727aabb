// Package queue publishes chat events to RabbitMQ.
package queue

import "github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"

// ChatMessageStoredEvent is published after a relayed message has been
// persisted, so downstream consumers (notifications, analytics) do not need
// to poll the messages table.
type ChatMessageStoredEvent struct {
	MessageID  int64  `json:"message_id"`
	SenderType string `json:"sender_type"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Message    string `json:"message"`
	StoredAt   string `json:"stored_at"`
}

func NewChatMessageStoredEvent(m model.ChatMessage) ChatMessageStoredEvent {
	return ChatMessageStoredEvent{
		MessageID:  m.ID,
		SenderType: m.SenderType,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Message:    m.Message,
		StoredAt:   m.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
