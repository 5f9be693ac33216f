package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"go-scrapyard-ws/internal/service"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(parseFilter(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute summary"})
	}
	return c.JSON(summary)
}

// GetMaterials returns the per-material breakdown plus a top-N ranking.
// Query params: metric (default profit), top (default all).
func (h *ReportHandler) GetMaterials(c *fiber.Ctx) error {
	metric := c.Query("metric", "profit")
	topN, err := strconv.Atoi(c.Query("top", "0"))
	if err != nil {
		topN = 0
	}

	breakdown, ranked, err := h.service.Materials(parseFilter(c), metric, topN)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute material breakdown"})
	}

	return c.JSON(fiber.Map{
		"breakdown": breakdown,
		"ranking":   ranked,
		"metric":    metric,
	})
}

func (h *ReportHandler) GetDaily(c *fiber.Ctx) error {
	breakdown, err := h.service.Daily(parseFilter(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute daily breakdown"})
	}
	return c.JSON(breakdown)
}

// GetPeriod folds daily reports into monthly or yearly summaries.
// Query param: granularity (month|year, default month).
func (h *ReportHandler) GetPeriod(c *fiber.Ctx) error {
	granularity := service.Granularity(c.Query("granularity", "month"))
	if granularity != service.GranularityMonth && granularity != service.GranularityYear {
		return c.Status(400).JSON(fiber.Map{"error": "granularity must be 'month' or 'year'"})
	}

	periods, err := h.service.Period(parseFilter(c), granularity)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute period report"})
	}
	return c.JSON(fiber.Map{"granularity": granularity, "periods": periods})
}
