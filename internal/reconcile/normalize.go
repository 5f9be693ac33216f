package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-scrapyard-ws/internal/model"
)

// Field aliases accepted on input. The first name in each list is the
// canonical one; the rest are the legacy names still sent by older clients
// (the form originally shipped with Portuguese field names).
var fieldAliases = map[string][]string{
	"type":             {"type", "tipo"},
	"material":         {"material"},
	"quantity":         {"quantity", "qty", "weight", "peso", "quantidade"},
	"unitPrice":        {"unitPrice", "unit_price", "price", "precoUnitario", "valorUnitario"},
	"totalValue":       {"totalValue", "total", "amount", "valorTotal", "valor"},
	"counterpartyName": {"counterpartyName", "counterparty", "client", "cliente", "fornecedor"},
	"notes":            {"notes", "note", "observacoes"},
	"timestamp":        {"timestamp", "date", "data"},
	"paymentMethod":    {"paymentMethod", "payment_method", "formaPagamento"},
	"paymentReference": {"paymentReference", "payment_reference", "chavePix"},
}

func lookup(raw map[string]any, field string) (any, bool) {
	for _, name := range fieldAliases[field] {
		if v, ok := raw[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	return strings.TrimSpace(s), ok
}

func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

func coerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func decimalField(raw map[string]any, field string, required bool) (decimal.Decimal, error) {
	v, ok := lookup(raw, field)
	if !ok {
		if required {
			return decimal.Zero, validationErr(field, "is required")
		}
		return decimal.Zero, nil
	}
	d, ok := coerceDecimal(v)
	if !ok {
		return decimal.Zero, validationErr(field, "must be a number")
	}
	return d, nil
}

func stringField(raw map[string]any, field string) string {
	if v, ok := lookup(raw, field); ok {
		if s, ok := coerceString(v); ok {
			return s
		}
	}
	return ""
}

// Normalize maps a raw input record, which may use legacy field names, onto
// the canonical Transaction shape. The total is left as entered; callers run
// ComputeTotal afterwards to enforce the quantity * unit price invariant.
func Normalize(raw map[string]any) (*model.Transaction, error) {
	t := &model.Transaction{}

	typeVal, ok := lookup(raw, "type")
	if !ok {
		return nil, validationErr("type", "is required")
	}
	typeStr, _ := coerceString(typeVal)
	switch model.TransactionType(typeStr) {
	case model.TypePurchase, model.TypeSale, model.TypeExpense:
		t.Type = model.TransactionType(typeStr)
	default:
		return nil, validationErr("type", "must be one of purchase, sale, expense")
	}

	t.Material = strings.ToLower(stringField(raw, "material"))
	t.CounterpartyName = stringField(raw, "counterpartyName")
	t.Notes = stringField(raw, "notes")
	t.PaymentReference = stringField(raw, "paymentReference")

	if method := stringField(raw, "paymentMethod"); method != "" {
		t.PaymentMethod = model.PaymentMethod(method)
	} else {
		t.PaymentMethod = model.PaymentCash
	}

	if v, ok := lookup(raw, "timestamp"); ok {
		ts, parsed := coerceTime(v)
		if !parsed {
			return nil, validationErr("timestamp", "must be a date or date-time")
		}
		t.Timestamp = ts
	} else {
		t.Timestamp = time.Now()
	}

	var err error
	switch t.Type {
	case model.TypePurchase, model.TypeSale:
		if t.Material == "" {
			return nil, validationErr("material", "is required")
		}
		if t.Quantity, err = decimalField(raw, "quantity", true); err != nil {
			return nil, err
		}
		if t.UnitPrice, err = decimalField(raw, "unitPrice", true); err != nil {
			return nil, err
		}
		if t.TotalValue, err = decimalField(raw, "totalValue", false); err != nil {
			return nil, err
		}
	case model.TypeExpense:
		if t.TotalValue, err = decimalField(raw, "totalValue", true); err != nil {
			return nil, err
		}
	}

	return t, nil
}
