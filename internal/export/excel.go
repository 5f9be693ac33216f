package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/report"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
)

// NewWorkbook builds an XLSX workbook with the raw transaction list and a
// summary sheet computed with the same fold the report views use.
func NewWorkbook(txs []model.Transaction, summary report.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetTransactions)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	// Add headers
	headers := []string{"Date", "Type", "Material", "Quantity (kg)", "Unit Price", "Total", "Counterparty", "Notes", "Payment"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetTransactions, cell, h)
	}

	// Add data
	for i, t := range txs {
		row := i + 2
		f.SetCellValue(sheetTransactions, "A"+fmt.Sprint(row), t.Timestamp.Format("2006-01-02"))
		f.SetCellValue(sheetTransactions, "B"+fmt.Sprint(row), string(t.Type))
		f.SetCellValue(sheetTransactions, "C"+fmt.Sprint(row), t.Material)
		f.SetCellValue(sheetTransactions, "D"+fmt.Sprint(row), t.Quantity.InexactFloat64())
		f.SetCellValue(sheetTransactions, "E"+fmt.Sprint(row), t.UnitPrice.InexactFloat64())
		f.SetCellValue(sheetTransactions, "F"+fmt.Sprint(row), t.TotalValue.InexactFloat64())
		f.SetCellValue(sheetTransactions, "G"+fmt.Sprint(row), t.CounterpartyName)
		f.SetCellValue(sheetTransactions, "H"+fmt.Sprint(row), t.Notes)
		f.SetCellValue(sheetTransactions, "I"+fmt.Sprint(row), string(t.EffectivePaymentMethod()))
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	summaryRows := []struct {
		label string
		value any
	}{
		{"Total Sales", summary.TotalSales.Round(2).InexactFloat64()},
		{"Sales Count", summary.SalesCount},
		{"Total Purchases", summary.TotalPurchases.Round(2).InexactFloat64()},
		{"Purchases Count", summary.PurchasesCount},
		{"Total Expenses", summary.TotalExpenses.Round(2).InexactFloat64()},
		{"Expenses Count", summary.ExpensesCount},
		{"Total Profit", summary.TotalProfit.Round(2).InexactFloat64()},
		{"Profit Margin %", summary.ProfitMarginPct.Round(2).InexactFloat64()},
	}
	for i, r := range summaryRows {
		f.SetCellValue(sheetSummary, "A"+fmt.Sprint(i+1), r.label)
		f.SetCellValue(sheetSummary, "B"+fmt.Sprint(i+1), r.value)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}
