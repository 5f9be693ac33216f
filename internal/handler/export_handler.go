package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-scrapyard-ws/internal/service"
)

type ExportHandler struct {
	service service.ExportService
}

func NewExportHandler(s service.ExportService) *ExportHandler {
	return &ExportHandler{service: s}
}

func (h *ExportHandler) ExportCSV(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)

	if err := h.service.WriteCSV(c.Response().BodyWriter(), parseFilter(c)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export CSV"})
	}
	return nil
}

func (h *ExportHandler) ExportXLSX(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.xlsx"`)

	if err := h.service.WriteXLSX(c.Response().BodyWriter(), parseFilter(c)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export spreadsheet"})
	}
	return nil
}
