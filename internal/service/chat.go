package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/config"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

var ErrPersistenceDisabled = errors.New("chat persistence is disabled")

type MessageStore interface {
	InsertMessage(ctx context.Context, msg model.NewChatMessage) (*model.ChatMessage, error)
	GetHistory(ctx context.Context, participantID string) ([]model.ChatMessage, error)
}

type HistoryCache interface {
	GetHistory(ctx context.Context, participantID string) ([]model.ChatMessage, bool, error)
	Version(ctx context.Context, participantID string) (int64, error)
	SetHistory(ctx context.Context, participantID string, msgs []model.ChatMessage, version int64) (bool, error)
	Invalidate(ctx context.Context, participantIDs ...string) error
}

type ChatEventPublisher interface {
	PublishChatMessage(ctx context.Context, msg model.ChatMessage) error
}

type ChatOptions struct {
	Persist        bool
	BroadcastScope string
	StoreTimeout   time.Duration
}

// ChatService relays messages between users and admins over the hub and,
// when persistence is on, records every relayed message.
type ChatService struct {
	hub        *WSHub
	store      MessageStore
	cache      HistoryCache
	publishers []ChatEventPublisher
	opts       ChatOptions
}

func NewChatService(hub *WSHub, store MessageStore, opts ChatOptions) *ChatService {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if store == nil {
		opts.Persist = false
	}
	return &ChatService{hub: hub, store: store, opts: opts}
}

func (s *ChatService) WithCache(cache HistoryCache) *ChatService {
	s.cache = cache
	return s
}

// WithPublisher adds p to the sinks notified after each stored message.
func (s *ChatService) WithPublisher(p ChatEventPublisher) *ChatService {
	s.publishers = append(s.publishers, p)
	return s
}

func (s *ChatService) Persisting() bool {
	return s.opts.Persist
}

// Connect registers client and tells it its connection id.
func (s *ChatService) Connect(client *WSClient) {
	s.hub.Register(client)
	s.hub.Send(client, model.NewEvent(model.EventSession, model.SessionPayload{ID: client.ID}))
}

// Handle applies one decoded client event. Events from a single connection
// must be handled sequentially.
func (s *ChatService) Handle(client *WSClient, ev model.ClientEvent) {
	switch e := ev.(type) {
	case model.UserMessage:
		s.UserMessage(client, e.Text)
	case model.JoinAdmin:
		s.JoinAdmin(client)
	case model.AdminReply:
		s.AdminReply(client, e.UserID, e.Text)
	case model.Ping:
		s.hub.Send(client, model.NewEvent(model.EventPong, nil))
	case model.Disconnect:
		s.hub.Unregister(client)
	}
}

// UserMessage broadcasts text as newUserMessage and then stores it addressed
// to the admin. A storage failure does not undo the broadcast.
func (s *ChatService) UserMessage(client *WSClient, text string) {
	if s.hub.IsAdmin(client) {
		s.SendError(client, "admin connections reply with adminReply")
		return
	}

	event := model.NewEvent(model.EventNewUserMessage, model.NewUserMessagePayload{ID: client.ID, Text: text})
	if s.opts.BroadcastScope == config.BroadcastAdmins {
		s.hub.BroadcastToAdmins(event)
	} else {
		s.hub.Broadcast(event)
	}
	log.Printf("[Chat] user %s: '%.40s'", client.ID, text)

	s.persist(model.NewChatMessage{
		SenderType: model.SenderUser,
		SenderID:   client.ID,
		ReceiverID: model.AdminID,
		Message:    text,
	})
}

// JoinAdmin marks the connection as an admin. Nothing is verified.
func (s *ChatService) JoinAdmin(client *WSClient) {
	s.hub.MarkAdmin(client)
	log.Printf("[Chat] %s joined as admin", client.ID)
}

// AdminReply delivers text to userID if connected, echoes replySent to the
// sender and stores the reply whether or not it was delivered.
func (s *ChatService) AdminReply(client *WSClient, userID, text string) {
	delivered := s.hub.SendTo(userID, model.NewEvent(model.EventNewAdminMessage, text))
	if !delivered {
		log.Printf("[Chat] reply to %s dropped: not connected", userID)
	}
	s.hub.Send(client, model.NewEvent(model.EventReplySent, model.ReplySentPayload{UserID: userID, Text: text}))

	s.persist(model.NewChatMessage{
		SenderType: model.SenderAdmin,
		SenderID:   model.AdminID,
		ReceiverID: userID,
		Message:    text,
	})
}

func (s *ChatService) SendError(client *WSClient, message string) {
	s.hub.Send(client, model.NewEvent(model.EventError, model.ErrorPayload{Message: message}))
}

func (s *ChatService) persist(msg model.NewChatMessage) {
	if !s.opts.Persist {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.StoreTimeout)
	defer cancel()

	stored, err := s.store.InsertMessage(ctx, msg)
	if err != nil {
		log.Printf("[Chat] persist %s message from %s failed: %v", msg.SenderType, msg.SenderID, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, msg.SenderID, msg.ReceiverID); err != nil {
			log.Printf("[Cache] invalidate history failed: %v", err)
		}
	}
	for _, p := range s.publishers {
		if err := p.PublishChatMessage(ctx, *stored); err != nil {
			log.Printf("[Chat] publish message %d failed: %v", stored.ID, err)
		}
	}
}

// History returns every stored message sent by or to participantID, oldest
// first, reading through the cache when one is configured.
func (s *ChatService) History(ctx context.Context, participantID string) ([]model.ChatMessage, error) {
	if !s.opts.Persist {
		return nil, ErrPersistenceDisabled
	}

	cacheable := false
	var version int64
	if s.cache != nil {
		msgs, ok, err := s.cache.GetHistory(ctx, participantID)
		if err != nil {
			log.Printf("[Cache] get history for %s failed: %v", participantID, err)
		} else if ok {
			return msgs, nil
		}
		if version, err = s.cache.Version(ctx, participantID); err != nil {
			log.Printf("[Cache] history version for %s failed: %v", participantID, err)
		} else {
			cacheable = true
		}
	}

	msgs, err := s.store.GetHistory(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	if cacheable {
		if _, err := s.cache.SetHistory(ctx, participantID, msgs, version); err != nil {
			log.Printf("[Cache] set history for %s failed: %v", participantID, err)
		}
	}
	return msgs, nil
}
