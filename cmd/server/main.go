package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/cache"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/config"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/database"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/queue"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/repository"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/server"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Database
	db, err := database.NewPool(ctx, database.Options{
		URL:         cfg.DatabaseURL,
		MaxConns:    int32(cfg.DBMaxConns),
		TLSInsecure: cfg.DatabaseTLSInsecure,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Chat relay
	wsHub := service.NewWSHub()
	var store service.MessageStore
	if cfg.ChatPersist {
		store = repository.NewChatRepository(db)
	}
	chatSvc := service.NewChatService(wsHub, store, service.ChatOptions{
		Persist:        cfg.ChatPersist,
		BroadcastScope: cfg.ChatBroadcastScope,
		StoreTimeout:   cfg.ChatStoreTimeout,
	})

	if cfg.ChatPersist && cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[Cache] disabled: %v", err)
		} else {
			defer rdb.Close()
			chatSvc.WithCache(cache.NewHistoryCache(rdb, cfg.HistoryCacheTTL))
			log.Println("[Cache] chat history cache enabled")
		}
	}

	if cfg.ChatPersist && cfg.RabbitMQURL != "" {
		conn, err := queue.Dial(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("[Queue] disabled: %v", err)
		} else {
			publisher := queue.NewChatPublisher(conn, cfg.ChatEventsQueue)
			defer publisher.Close()
			chatSvc.WithPublisher(publisher)
			log.Printf("[Queue] publishing chat events to %s", cfg.ChatEventsQueue)
		}
	}

	if cfg.ChatPersist && cfg.AdminWebhookURL != "" {
		chatSvc.WithPublisher(service.NewAdminWebhook(cfg.AdminWebhookURL))
		log.Println("[Webhook] admin notifications enabled")
	}

	app := server.New(cfg, server.Deps{DB: db, Hub: wsHub, ChatSvc: chatSvc})

	go wsHub.Run()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Krushi Sevak backend running on :%s (%s, persist=%v)", cfg.Port, cfg.Env, cfg.ChatPersist)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wsHub.Shutdown()
	log.Println("Server stopped")
}
