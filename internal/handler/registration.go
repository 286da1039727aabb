package handler

import (
	"log"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const banner = "✅ Krushi Sevak backend running successfully!"

// Index serves the plain-text banner on GET /.
func Index(c *fiber.Ctx) error {
	return c.SendString(banner)
}

type RegistrationHandler struct {
	distributors *repository.DistributorRepository
	farmers      *repository.FarmerRepository
}

func NewRegistrationHandler(distributors *repository.DistributorRepository, farmers *repository.FarmerRepository) *RegistrationHandler {
	return &RegistrationHandler{distributors: distributors, farmers: farmers}
}

// RegisterDistributor stores the submitted distributor as-is.
// POST /register-distributor
func (h *RegistrationHandler) RegisterDistributor(c *fiber.Ctx) error {
	var d model.Distributor
	if err := parseBody(c, &d); err != nil {
		log.Printf("[Register] distributor body rejected: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error registering distributor")
	}
	d.ID = 0

	if err := h.distributors.Create(c.Context(), &d); err != nil {
		log.Printf("[Register] distributor DB error: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error registering distributor")
	}

	log.Printf("[Register] distributor %d stored", d.ID)
	return c.SendString("✅ Distributor registered successfully!")
}

// RegisterFarmer stores the submitted farmer as-is.
// POST /register-farmer
func (h *RegistrationHandler) RegisterFarmer(c *fiber.Ctx) error {
	var f model.Farmer
	if err := parseBody(c, &f); err != nil {
		log.Printf("[Register] farmer body rejected: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error registering farmer")
	}
	f.ID = 0

	if err := h.farmers.Create(c.Context(), &f); err != nil {
		log.Printf("[Register] farmer DB error: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("❌ Error registering farmer")
	}

	log.Printf("[Register] farmer %d stored", f.ID)
	return c.SendString("✅ Farmer registered successfully!")
}

// parseBody treats an empty body as an empty object, so every field is NULL.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
