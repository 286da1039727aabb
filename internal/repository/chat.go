package repository

import (
	"context"
	"fmt"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/database"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

type ChatRepository struct {
	db database.DB
}

func NewChatRepository(db database.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// InsertMessage stores a relayed message and returns the stored row.
func (r *ChatRepository) InsertMessage(ctx context.Context, msg model.NewChatMessage) (*model.ChatMessage, error) {
	m := &model.ChatMessage{
		SenderType: msg.SenderType,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Message:    msg.Message,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (sender_type, sender_id, receiver_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, "timestamp"
	`, msg.SenderType, msg.SenderID, msg.ReceiverID, msg.Message).Scan(&m.ID, &m.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// GetHistory returns every message sent by or to participantID, oldest first.
// There is no limit.
func (r *ChatRepository) GetHistory(ctx context.Context, participantID string) ([]model.ChatMessage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(sender_type, ''), COALESCE(sender_id, ''), COALESCE(receiver_id, ''),
		       message, "timestamp"
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY "timestamp" ASC, id ASC
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	msgs := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderType, &m.SenderID, &m.ReceiverID, &m.Message, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return msgs, nil
}

func (r *ChatRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// LegacyChatRepository backs the flat chats table of POST /chat and GET /chats.
type LegacyChatRepository struct {
	db database.DB
}

func NewLegacyChatRepository(db database.DB) *LegacyChatRepository {
	return &LegacyChatRepository{db: db}
}

func (r *LegacyChatRepository) Insert(ctx context.Context, req model.LegacyChatRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chats (sender, message) VALUES ($1, $2)
	`, req.Sender, req.Message)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

func (r *LegacyChatRepository) List(ctx context.Context) ([]model.LegacyChat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sender, message
		FROM chats
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	chats := []model.LegacyChat{}
	for rows.Next() {
		var c model.LegacyChat
		if err := rows.Scan(&c.ID, &c.Sender, &c.Message); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
