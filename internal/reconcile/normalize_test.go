package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/reconcile"
)

func TestNormalizeCanonicalFields(t *testing.T) {
	got, err := reconcile.Normalize(map[string]any{
		"type":             "purchase",
		"material":         "Iron",
		"quantity":         10.0,
		"unitPrice":        2.5,
		"counterpartyName": "Joe's Demolition",
		"notes":            "mixed scrap",
		"timestamp":        "2026-03-15T10:30:00Z",
		"paymentMethod":    "pix",
		"paymentReference": "joe@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TypePurchase, got.Type)
	assert.Equal(t, "iron", got.Material, "material is lowercased")
	assert.True(t, got.Quantity.Equal(dec("10")))
	assert.True(t, got.UnitPrice.Equal(dec("2.5")))
	assert.Equal(t, "Joe's Demolition", got.CounterpartyName)
	assert.Equal(t, model.PaymentPix, got.PaymentMethod)
	assert.Equal(t, "joe@example.com", got.PaymentReference)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), got.Timestamp)
}

func TestNormalizeLegacyAliases(t *testing.T) {
	got, err := reconcile.Normalize(map[string]any{
		"tipo":          "sale",
		"material":      "copper",
		"peso":          "12.5",
		"precoUnitario": "8.00",
		"cliente":       "Recicla SA",
		"data":          "2026-02-01",
		"chavePix":      "11999990000",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TypeSale, got.Type)
	assert.True(t, got.Quantity.Equal(dec("12.5")))
	assert.True(t, got.UnitPrice.Equal(dec("8")))
	assert.Equal(t, "Recicla SA", got.CounterpartyName)
	assert.Equal(t, "11999990000", got.PaymentReference)
	assert.Equal(t, "2026-02-01", got.Timestamp.Format("2006-01-02"))
}

func TestNormalizeDefaults(t *testing.T) {
	before := time.Now()
	got, err := reconcile.Normalize(map[string]any{
		"type":      "purchase",
		"material":  "aluminum",
		"quantity":  5,
		"unitPrice": 3,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCash, got.PaymentMethod, "payment method defaults to cash")
	assert.False(t, got.Timestamp.Before(before), "timestamp defaults to now")
}

func TestNormalizeExpense(t *testing.T) {
	got, err := reconcile.Normalize(map[string]any{
		"type":       "expense",
		"totalValue": 200,
		"notes":      "truck fuel",
	})
	require.NoError(t, err)
	assert.True(t, got.TotalValue.Equal(dec("200")))
	assert.Empty(t, got.Material)
}

func TestNormalizeValidation(t *testing.T) {
	type testCase struct {
		name      string
		raw       map[string]any
		wantField string
	}

	tests := []testCase{
		{
			name:      "MissingType",
			raw:       map[string]any{"material": "iron"},
			wantField: "type",
		},
		{
			name:      "UnknownType",
			raw:       map[string]any{"type": "donation"},
			wantField: "type",
		},
		{
			name:      "PurchaseWithoutMaterial",
			raw:       map[string]any{"type": "purchase", "quantity": 1, "unitPrice": 1},
			wantField: "material",
		},
		{
			name:      "SaleWithoutQuantity",
			raw:       map[string]any{"type": "sale", "material": "iron", "unitPrice": 2},
			wantField: "quantity",
		},
		{
			name:      "NonNumericQuantity",
			raw:       map[string]any{"type": "sale", "material": "iron", "quantity": "heavy", "unitPrice": 2},
			wantField: "quantity",
		},
		{
			name:      "ExpenseWithoutTotal",
			raw:       map[string]any{"type": "expense"},
			wantField: "totalValue",
		},
		{
			name:      "UnparseableTimestamp",
			raw:       map[string]any{"type": "expense", "totalValue": 10, "timestamp": "yesterday"},
			wantField: "timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reconcile.Normalize(tt.raw)
			var verr *reconcile.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
