package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	items, err := h.service.GetInventory()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *InventoryHandler) UpdateMaterial(c *fiber.Ctx) error {
	material := strings.ToLower(strings.TrimSpace(c.Params("material")))
	if material == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material"})
	}

	var req model.InventoryItem
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateMaterial(material, &req, getOperator(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Material updated", "data": updated})
}
