package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scrapyard-ws/internal/export"
	"go-scrapyard-ws/internal/model"
)

func sampleTransactions() []model.Transaction {
	ts, _ := time.Parse("2006-01-02", "2026-03-15")
	return []model.Transaction{
		{
			Type:             model.TypePurchase,
			Material:         "iron",
			Quantity:         decimal.RequireFromString("10"),
			UnitPrice:        decimal.RequireFromString("2.5"),
			TotalValue:       decimal.RequireFromString("25"),
			CounterpartyName: "Joe's Demolition",
			Notes:            "mixed scrap",
			Timestamp:        ts,
		},
		{
			Type:       model.TypeExpense,
			TotalValue: decimal.RequireFromString("150.75"),
			Notes:      "truck fuel",
			Timestamp:  ts.AddDate(0, 0, 1),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleTransactions(), ','))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "output starts with a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"date", "type", "material", "quantity", "unit_price", "total", "counterparty", "notes"}, records[0])
	assert.Equal(t, []string{"2026-03-15", "purchase", "iron", "10", "2.50", "25.00", "Joe's Demolition", "mixed scrap"}, records[1])
	assert.Equal(t, []string{"2026-03-16", "expense", "", "0", "0.00", "150.75", "", "truck fuel"}, records[2])
}

func TestWriteCSVSemicolonDelimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleTransactions(), ';'))

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines[0], "date;type;material")

	r := csv.NewReader(bytes.NewReader(buf.Bytes()[3:]))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil, ','))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
