package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

// AdminWebhook posts an embed to a Discord-compatible webhook whenever a user
// message is stored, so admins learn about conversations while offline.
// Admin replies are not posted.
type AdminWebhook struct {
	webhookURL string
	client     *http.Client
}

func NewAdminWebhook(webhookURL string) *AdminWebhook {
	return &AdminWebhook{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Fields      []webhookField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []webhookEmbed `json:"embeds"`
}

// PublishChatMessage sends in the background and never fails the caller.
func (w *AdminWebhook) PublishChatMessage(_ context.Context, msg model.ChatMessage) error {
	if w.webhookURL == "" || msg.SenderType != model.SenderUser {
		return nil
	}

	payload := webhookPayload{
		Username: "Krushi Sevak Chat",
		Embeds: []webhookEmbed{{
			Title:       "New message from a user",
			Description: truncate(msg.Message, 1000),
			Color:       0x2ECC71,
			Fields: []webhookField{
				{Name: "Connection", Value: msg.SenderID, Inline: true},
				{Name: "History", Value: fmt.Sprintf("/chat-history/%s", msg.SenderID), Inline: true},
			},
			Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
		}},
	}

	go w.send(payload)
	return nil
}

func (w *AdminWebhook) send(payload webhookPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Webhook] marshal error: %v", err)
		return
	}
	resp, err := w.client.Post(w.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Webhook] send error: %v", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		log.Printf("[Webhook] HTTP %d for webhook", resp.StatusCode)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
