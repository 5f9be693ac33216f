package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-scrapyard-ws/internal/service"
)

type SyncHandler struct {
	service service.SyncService
}

func NewSyncHandler(s service.SyncService) *SyncHandler {
	return &SyncHandler{service: s}
}

// Refresh triggers a manual pull. A refresh already in flight makes this a
// no-op rather than an error.
func (h *SyncHandler) Refresh(c *fiber.Ctx) error {
	started, err := h.service.Refresh()
	if err != nil {
		return c.Status(503).JSON(fiber.Map{
			"error":  err.Error(),
			"status": h.service.Status(),
		})
	}
	if !started {
		return c.JSON(fiber.Map{"message": "Refresh already in progress", "status": h.service.Status()})
	}
	return c.JSON(fiber.Map{"message": "Refresh complete", "status": h.service.Status()})
}

func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
