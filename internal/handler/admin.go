package handler

import (
	"context"
	"log"
	"time"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/repository"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	distributorRepo *repository.DistributorRepository
	farmerRepo      *repository.FarmerRepository
	chatRepo        *repository.ChatRepository
	wsHub           *service.WSHub
}

func NewAdminHandler(distributorRepo *repository.DistributorRepository, farmerRepo *repository.FarmerRepository, chatRepo *repository.ChatRepository, wsHub *service.WSHub) *AdminHandler {
	return &AdminHandler{
		distributorRepo: distributorRepo,
		farmerRepo:      farmerRepo,
		chatRepo:        chatRepo,
		wsHub:           wsHub,
	}
}

// Stats reports row counts and live connection counts. Count failures are
// logged and reported as zero.
// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	stats := model.Stats{
		ConnectionsOnline: h.wsHub.OnlineCount(),
		AdminsOnline:      h.wsHub.AdminCount(),
	}

	var err error
	if stats.DistributorsTotal, err = h.distributorRepo.CountTotal(ctx); err != nil {
		log.Printf("[Admin] count distributors: %v", err)
	}
	if stats.FarmersTotal, err = h.farmerRepo.CountTotal(ctx); err != nil {
		log.Printf("[Admin] count farmers: %v", err)
	}
	if stats.MessagesTotal, err = h.chatRepo.CountTotal(ctx); err != nil {
		log.Printf("[Admin] count messages: %v", err)
	}

	return c.JSON(stats)
}
