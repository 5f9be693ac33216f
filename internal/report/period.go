package report

import (
	"iter"

	"github.com/shopspring/decimal"

	"go-scrapyard-ws/internal/model"
)

// MaterialTotals is the per-material slice of a daily report.
type MaterialTotals struct {
	Sales             decimal.Decimal `json:"sales"`
	Purchases         decimal.Decimal `json:"purchases"`
	QuantitySold      decimal.Decimal `json:"quantitySold"`
	QuantityPurchased decimal.Decimal `json:"quantityPurchased"`
}

// DailyReport is the read-only per-day aggregate produced upstream from the
// ledger. Monthly and yearly summaries fold these instead of re-scanning
// every transaction.
type DailyReport struct {
	Date              string                    `json:"date"`
	TotalSales        decimal.Decimal           `json:"totalSales"`
	TotalPurchases    decimal.Decimal           `json:"totalPurchases"`
	TotalExpenses     decimal.Decimal           `json:"totalExpenses"`
	TotalProfit       decimal.Decimal           `json:"totalProfit"`
	TotalTransactions int                       `json:"totalTransactions"`
	Materials         map[string]MaterialTotals `json:"materials"`
}

// PeriodReport is a monthly or yearly fold of daily reports.
type PeriodReport struct {
	Period            string                    `json:"period"`
	Days              int                       `json:"days"`
	TotalSales        decimal.Decimal           `json:"totalSales"`
	TotalPurchases    decimal.Decimal           `json:"totalPurchases"`
	TotalExpenses     decimal.Decimal           `json:"totalExpenses"`
	TotalProfit       decimal.Decimal           `json:"totalProfit"`
	ProfitMarginPct   decimal.Decimal           `json:"profitMarginPct"`
	TotalTransactions int                       `json:"totalTransactions"`
	Materials         map[string]MaterialTotals `json:"materials"`
}

// ComputeDailyReports folds a transaction sequence into the external daily
// report shape, one entry per calendar date in first-seen order.
func ComputeDailyReports(txs iter.Seq[model.Transaction]) []DailyReport {
	var order []string
	byDate := map[string]*DailyReport{}

	for t := range txs {
		key := DateKey(&t)
		day, ok := byDate[key]
		if !ok {
			day = &DailyReport{Date: key, Materials: map[string]MaterialTotals{}}
			byDate[key] = day
			order = append(order, key)
		}

		switch t.Type {
		case model.TypeSale:
			day.TotalSales = day.TotalSales.Add(t.TotalValue)
		case model.TypePurchase:
			day.TotalPurchases = day.TotalPurchases.Add(t.TotalValue)
		case model.TypeExpense:
			day.TotalExpenses = day.TotalExpenses.Add(t.TotalValue)
		}
		day.TotalTransactions++

		if t.MovesStock() && t.Material != "" {
			totals := day.Materials[t.Material]
			if t.Type == model.TypeSale {
				totals.Sales = totals.Sales.Add(t.TotalValue)
				totals.QuantitySold = totals.QuantitySold.Add(t.Quantity)
			} else {
				totals.Purchases = totals.Purchases.Add(t.TotalValue)
				totals.QuantityPurchased = totals.QuantityPurchased.Add(t.Quantity)
			}
			day.Materials[t.Material] = totals
		}
	}

	reports := make([]DailyReport, 0, len(order))
	for _, key := range order {
		day := byDate[key]
		day.TotalProfit = day.TotalSales.Sub(day.TotalPurchases).Sub(day.TotalExpenses)
		reports = append(reports, *day)
	}
	return reports
}

// AggregatePeriod folds daily reports into one period summary by summing
// every numeric field and merging the material maps key-wise. Profit margin
// is recomputed from the summed totals.
func AggregatePeriod(daily []DailyReport) PeriodReport {
	p := PeriodReport{Materials: map[string]MaterialTotals{}}
	for _, day := range daily {
		p.Days++
		p.TotalSales = p.TotalSales.Add(day.TotalSales)
		p.TotalPurchases = p.TotalPurchases.Add(day.TotalPurchases)
		p.TotalExpenses = p.TotalExpenses.Add(day.TotalExpenses)
		p.TotalTransactions += day.TotalTransactions

		for material, totals := range day.Materials {
			merged := p.Materials[material]
			merged.Sales = merged.Sales.Add(totals.Sales)
			merged.Purchases = merged.Purchases.Add(totals.Purchases)
			merged.QuantitySold = merged.QuantitySold.Add(totals.QuantitySold)
			merged.QuantityPurchased = merged.QuantityPurchased.Add(totals.QuantityPurchased)
			p.Materials[material] = merged
		}
	}
	p.TotalProfit = p.TotalSales.Sub(p.TotalPurchases).Sub(p.TotalExpenses)
	p.ProfitMarginPct = safeRatio(p.TotalProfit, p.TotalSales, oneHundred)
	return p
}
