package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/report"
)

// Helper to read the operator name from the JWT context (set by RequireAuth)
func getOperator(c *fiber.Ctx) string {
	operator := c.Locals("operator")
	if operator == nil {
		return "system"
	}
	return operator.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// parseFilter builds a report filter from query parameters. Unknown or
// malformed date values simply leave that bound inactive.
func parseFilter(c *fiber.Ctx) report.Filter {
	f := report.Filter{
		Type:          model.TransactionType(c.Query("type")),
		PaymentMethod: model.PaymentMethod(c.Query("paymentMethod")),
		Material:      c.Query("material"),
		Search:        c.Query("q"),
	}

	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		f.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		f.To = &to
	}

	if quick := c.Query("quick"); quick != "" {
		for _, name := range strings.Split(quick, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				f.Quick = append(f.Quick, report.QuickFilter(name))
			}
		}
	}

	return f
}
