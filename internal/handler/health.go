package handler

import (
	"context"
	"log"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/database"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	db      database.DB
	chatSvc *service.ChatService
	hub     *service.WSHub
}

func NewHealthHandler(db database.DB, chatSvc *service.ChatService, hub *service.WSHub) *HealthHandler {
	return &HealthHandler{db: db, chatSvc: chatSvc, hub: hub}
}

// Health is liveness only and never touches the database.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready pings Postgres and reports the relay's state next to it.
// GET /ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	body := fiber.Map{
		"status":       "ready",
		"database":     "up",
		"chat_persist": h.chatSvc.Persisting(),
		"connections":  h.hub.OnlineCount(),
		"admins":       h.hub.AdminCount(),
	}

	if err := h.db.Ping(ctx); err != nil {
		log.Printf("[DB] readiness ping failed: %v", err)
		body["status"] = "not ready"
		body["database"] = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return c.JSON(body)
}
