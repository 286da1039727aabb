package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WSEvent is the frame exchanged over the websocket in both directions.
type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client -> server event types.
const (
	EventUserMessage = "userMessage"
	EventJoinAdmin   = "joinAdmin"
	EventAdminReply  = "adminReply"
	EventPing        = "ping"
)

// Server -> client event types.
const (
	EventSession         = "session"
	EventNewUserMessage  = "newUserMessage"
	EventNewAdminMessage = "newAdminMessage"
	EventReplySent       = "replySent"
	EventPong            = "pong"
	EventError           = "error"
)

var (
	ErrUnknownEvent   = errors.New("unknown event type")
	ErrInvalidPayload = errors.New("invalid event payload")
)

// ClientEvent is one of UserMessage, JoinAdmin, AdminReply, Ping or Disconnect.
type ClientEvent interface {
	clientEvent()
}

type UserMessage struct {
	Text string
}

type JoinAdmin struct{}

type AdminReply struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type Ping struct{}

// Disconnect is produced by the connection handler when the socket closes;
// it never arrives as a frame.
type Disconnect struct{}

func (UserMessage) clientEvent() {}
func (JoinAdmin) clientEvent()   {}
func (AdminReply) clientEvent()  {}
func (Ping) clientEvent()        {}
func (Disconnect) clientEvent()  {}

// DecodeClientEvent parses a raw frame into its typed variant. Text fields
// must be non-blank.
func DecodeClientEvent(raw []byte) (ClientEvent, error) {
	var ev WSEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch ev.Type {
	case EventUserMessage:
		var text string
		if err := json.Unmarshal(ev.Data, &text); err != nil {
			return nil, fmt.Errorf("%w: userMessage expects a string", ErrInvalidPayload)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: message text is required", ErrInvalidPayload)
		}
		return UserMessage{Text: text}, nil

	case EventJoinAdmin:
		return JoinAdmin{}, nil

	case EventAdminReply:
		var reply AdminReply
		if err := json.Unmarshal(ev.Data, &reply); err != nil {
			return nil, fmt.Errorf("%w: adminReply expects {userId, text}", ErrInvalidPayload)
		}
		if strings.TrimSpace(reply.UserID) == "" || strings.TrimSpace(reply.Text) == "" {
			return nil, fmt.Errorf("%w: userId and text are required", ErrInvalidPayload)
		}
		return reply, nil

	case EventPing:
		return Ping{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

type SessionPayload struct {
	ID string `json:"id"`
}

type NewUserMessagePayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ReplySentPayload struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEvent builds an outbound frame. Payloads that fail to marshal produce an
// event without data.
func NewEvent(eventType string, payload any) *WSEvent {
	ev := &WSEvent{Type: eventType}
	if payload == nil {
		return ev
	}
	if data, err := json.Marshal(payload); err == nil {
		ev.Data = data
	}
	return ev
}
