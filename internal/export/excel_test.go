package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scrapyard-ws/internal/export"
	"go-scrapyard-ws/internal/report"
)

func TestNewWorkbook(t *testing.T) {
	txs := sampleTransactions()
	summary := report.ComputeSummary(report.Sequence(txs))

	f, err := export.NewWorkbook(txs, summary)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Transactions")
	assert.Contains(t, sheets, "Summary")
	assert.NotContains(t, sheets, "Sheet1")

	header, err := f.GetCellValue("Transactions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	date, _ := f.GetCellValue("Transactions", "A2")
	assert.Equal(t, "2026-03-15", date)
	material, _ := f.GetCellValue("Transactions", "C2")
	assert.Equal(t, "iron", material)
	total, _ := f.GetCellValue("Transactions", "F2")
	assert.Equal(t, "25", total)
	payment, _ := f.GetCellValue("Transactions", "I2")
	assert.Equal(t, "cash", payment, "missing payment method exports as cash")

	expenseTotal, _ := f.GetCellValue("Transactions", "F3")
	assert.Equal(t, "150.75", expenseTotal)
}

func TestNewWorkbookSummarySheet(t *testing.T) {
	txs := sampleTransactions()
	summary := report.ComputeSummary(report.Sequence(txs))

	f, err := export.NewWorkbook(txs, summary)
	require.NoError(t, err)
	defer f.Close()

	label, _ := f.GetCellValue("Summary", "A3")
	assert.Equal(t, "Total Purchases", label)
	value, _ := f.GetCellValue("Summary", "B3")
	assert.Equal(t, "25", value)

	profitLabel, _ := f.GetCellValue("Summary", "A7")
	assert.Equal(t, "Total Profit", profitLabel)
	profit, _ := f.GetCellValue("Summary", "B7")
	assert.Equal(t, "-175.75", profit)
}
