package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

func TestPublishWithoutConnection(t *testing.T) {
	var nilPub *ChatPublisher
	if err := nilPub.PublishChatMessage(context.Background(), model.ChatMessage{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected from nil publisher, got %v", err)
	}

	p := NewChatPublisher(nil, "chat.messages")
	if err := p.PublishChatMessage(context.Background(), model.ChatMessage{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close without connection: %v", err)
	}
}

func TestChatMessageStoredEventPayload(t *testing.T) {
	ts := time.Date(2026, 5, 4, 12, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	ev := NewChatMessageStoredEvent(model.ChatMessage{
		ID:         3,
		SenderType: model.SenderAdmin,
		SenderID:   model.AdminID,
		ReceiverID: "u1",
		Message:    "hello u1",
		Timestamp:  ts,
	})

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["stored_at"] != "2026-05-04T07:00:00.000Z" {
		t.Fatalf("expected UTC timestamp, got %v", decoded["stored_at"])
	}
	if decoded["receiver_id"] != "u1" || decoded["message_id"] != float64(3) {
		t.Fatalf("unexpected payload %s", raw)
	}
}
