// Package server assembles the Fiber application and its routes.
package server

import (
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/config"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/database"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/handler"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/middleware"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/repository"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Deps struct {
	DB      database.DB
	Hub     *service.WSHub
	ChatSvc *service.ChatService
}

// New builds the HTTP and websocket surface on top of deps.
func New(cfg *config.Config, deps Deps) *fiber.App {
	distributorRepo := repository.NewDistributorRepository(deps.DB)
	farmerRepo := repository.NewFarmerRepository(deps.DB)
	chatRepo := repository.NewChatRepository(deps.DB)
	legacyChatRepo := repository.NewLegacyChatRepository(deps.DB)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(time.Duration(cfg.LogSlowMs) * time.Millisecond))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	app.Get("/", handler.Index)

	// Health
	healthH := handler.NewHealthHandler(deps.DB, deps.ChatSvc, deps.Hub)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// Registration
	regH := handler.NewRegistrationHandler(distributorRepo, farmerRepo)
	limit := middleware.RateLimit(cfg.RegisterRateLimit, time.Minute)
	app.Post("/register-distributor", limit, regH.RegisterDistributor)
	app.Post("/register-farmer", limit, regH.RegisterFarmer)

	// Chat
	chatH := handler.NewChatHandler(legacyChatRepo, deps.ChatSvc)
	app.Post("/chat", chatH.PostMessage)
	app.Get("/chats", chatH.ListMessages)
	app.Get("/chat-history/:userId", chatH.GetHistory)

	// Admin (only when a key is configured)
	if cfg.AdminKey != "" {
		adminH := handler.NewAdminHandler(distributorRepo, farmerRepo, chatRepo, deps.Hub)
		admin := app.Group("/admin", middleware.AdminKey(cfg.AdminKey))
		admin.Get("/stats", adminH.Stats)
	}

	// WebSocket
	wsH := handler.NewWSHandler(deps.ChatSvc, cfg.WSReadTimeout, cfg.WSPingInterval)
	app.Get("/ws", wsH.Upgrade)

	return app
}
