package handler

import (
	"errors"
	"log"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/repository"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	legacyRepo *repository.LegacyChatRepository
	chatSvc    *service.ChatService
}

func NewChatHandler(legacyRepo *repository.LegacyChatRepository, chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{legacyRepo: legacyRepo, chatSvc: chatSvc}
}

// PostMessage stores a message in the flat chats table.
// POST /chat
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req model.LegacyChatRequest
	if err := parseBody(c, &req); err != nil {
		log.Printf("[Chat] PostMessage body rejected: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error saving chat message")
	}

	if err := h.legacyRepo.Insert(c.Context(), req); err != nil {
		log.Printf("[Chat] PostMessage DB error: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error saving chat message")
	}

	return c.SendString("💬 Message saved successfully!")
}

// ListMessages returns every row of the chats table by id.
// GET /chats
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	chats, err := h.legacyRepo.List(c.Context())
	if err != nil {
		log.Printf("[Chat] ListMessages DB error: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error fetching messages")
	}
	return c.JSON(chats)
}

// GetHistory returns the relayed messages a connection id sent or received.
// GET /chat-history/:userId
func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Params("userId")

	msgs, err := h.chatSvc.History(c.Context(), userID)
	if errors.Is(err, service.ErrPersistenceDisabled) {
		return c.Status(fiber.StatusNotFound).SendString("Chat history is not available")
	}
	if err != nil {
		log.Printf("[Chat] GetHistory DB error for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error fetching chat history")
	}

	log.Printf("[Chat] GetHistory: returning %d messages for %s", len(msgs), userID)
	return c.JSON(msgs)
}
