package handler

import (
	"errors"
	"slices"

	"github.com/gofiber/fiber/v2"

	"go-scrapyard-ws/internal/reconcile"
	"go-scrapyard-ws/internal/report"
	"go-scrapyard-ws/internal/service"
)

type TransactionHandler struct {
	service service.LedgerService
}

func NewTransactionHandler(s service.LedgerService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	var vErr *reconcile.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(400).JSON(fiber.Map{"error": vErr.Error(), "field": vErr.Field})
	}
	if errors.Is(err, reconcile.ErrNegativeStock) {
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, reconcile.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	if errors.Is(err, reconcile.ErrStoreUnavailable) {
		return c.Status(503).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}

func warningPayload(warns []*reconcile.ReconciliationWarning) []fiber.Map {
	if len(warns) == 0 {
		return nil
	}
	out := make([]fiber.Map, 0, len(warns))
	for _, w := range warns {
		out = append(out, fiber.Map{
			"material": w.Material,
			"detail":   w.String(),
		})
	}
	return out
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	all, err := h.service.ListTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	filtered := slices.Collect(report.FilterTransactions(all, parseFilter(c)))
	return c.JSON(fiber.Map{"count": len(filtered), "data": filtered})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	t, err := h.service.GetTransaction(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	t, warns, err := h.service.CreateTransaction(raw, getOperator(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":  "Transaction recorded",
		"data":     t,
		"synced":   !t.Unsynced,
		"warnings": warningPayload(warns),
	})
}

func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	t, warns, err := h.service.UpdateTransaction(id, raw, getOperator(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Transaction updated",
		"data":     t,
		"synced":   !t.Unsynced,
		"warnings": warningPayload(warns),
	})
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	warns, err := h.service.DeleteTransaction(id, getOperator(c))
	if errors.Is(err, reconcile.ErrNotFound) {
		// Delete-after-delete is benign.
		return c.JSON(fiber.Map{"message": "Transaction already deleted"})
	}
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Transaction deleted",
		"warnings": warningPayload(warns),
	})
}
