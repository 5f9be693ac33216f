package report

import (
	"iter"

	"github.com/shopspring/decimal"

	"go-scrapyard-ws/internal/model"
)

var oneHundred = decimal.NewFromInt(100)

// safeRatio returns num/den * scale, defined as zero when den is zero.
func safeRatio(num, den, scale decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(scale)
}

// Summary is the overall fold of a transaction sequence. Profit and margin
// are always recomputed from the summed totals, never summed directly, so
// partition sums stay associative for the additive fields.
type Summary struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	SalesCount      int             `json:"salesCount"`
	TotalPurchases  decimal.Decimal `json:"totalPurchases"`
	PurchasesCount  int             `json:"purchasesCount"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	ExpensesCount   int             `json:"expensesCount"`
	TotalProfit     decimal.Decimal `json:"totalProfit"`
	ProfitMarginPct decimal.Decimal `json:"profitMarginPct"`
}

func (s *Summary) add(t *model.Transaction) {
	// A malformed record without a total contributes zero; the fold never
	// fails on partial data.
	switch t.Type {
	case model.TypeSale:
		s.TotalSales = s.TotalSales.Add(t.TotalValue)
		s.SalesCount++
	case model.TypePurchase:
		s.TotalPurchases = s.TotalPurchases.Add(t.TotalValue)
		s.PurchasesCount++
	case model.TypeExpense:
		s.TotalExpenses = s.TotalExpenses.Add(t.TotalValue)
		s.ExpensesCount++
	}
}

func (s *Summary) finalize() {
	s.TotalProfit = s.TotalSales.Sub(s.TotalPurchases).Sub(s.TotalExpenses)
	s.ProfitMarginPct = safeRatio(s.TotalProfit, s.TotalSales, oneHundred)
}

// ComputeSummary folds a transaction sequence into the overall summary.
// An empty sequence yields all zeros.
func ComputeSummary(txs iter.Seq[model.Transaction]) Summary {
	var s Summary
	for t := range txs {
		s.add(&t)
	}
	s.finalize()
	return s
}

// MaterialStats is the per-material fold. The derived ratio fields are all
// defined as zero when their denominator is zero.
type MaterialStats struct {
	Sales             decimal.Decimal `json:"sales"`
	Purchases         decimal.Decimal `json:"purchases"`
	QuantitySold      decimal.Decimal `json:"quantitySold"`
	QuantityPurchased decimal.Decimal `json:"quantityPurchased"`
	Profit            decimal.Decimal `json:"profit"`
	MarginPct         decimal.Decimal `json:"marginPct"`
	AvgSalePrice      decimal.Decimal `json:"avgSalePrice"`
	AvgPurchasePrice  decimal.Decimal `json:"avgPurchasePrice"`
	ROIPct            decimal.Decimal `json:"roiPct"`
}

// MaterialBreakdown keys stats by material and remembers first-seen order,
// which the stable top-N ranking relies on for reproducible ties.
type MaterialBreakdown struct {
	Order []string                  `json:"order"`
	Items map[string]*MaterialStats `json:"items"`
}

func (b *MaterialBreakdown) get(material string) *MaterialStats {
	if stats, ok := b.Items[material]; ok {
		return stats
	}
	stats := &MaterialStats{}
	b.Items[material] = stats
	b.Order = append(b.Order, material)
	return stats
}

// ComputeMaterialBreakdown folds the sequence per material. Expenses carry
// no material and are skipped.
func ComputeMaterialBreakdown(txs iter.Seq[model.Transaction]) *MaterialBreakdown {
	b := &MaterialBreakdown{Items: map[string]*MaterialStats{}}
	for t := range txs {
		if !t.MovesStock() || t.Material == "" {
			continue
		}
		stats := b.get(t.Material)
		switch t.Type {
		case model.TypeSale:
			stats.Sales = stats.Sales.Add(t.TotalValue)
			stats.QuantitySold = stats.QuantitySold.Add(t.Quantity)
		case model.TypePurchase:
			stats.Purchases = stats.Purchases.Add(t.TotalValue)
			stats.QuantityPurchased = stats.QuantityPurchased.Add(t.Quantity)
		}
	}
	for _, stats := range b.Items {
		stats.Profit = stats.Sales.Sub(stats.Purchases)
		stats.MarginPct = safeRatio(stats.Profit, stats.Sales, oneHundred)
		stats.AvgSalePrice = safeRatio(stats.Sales, stats.QuantitySold, decimal.NewFromInt(1))
		stats.AvgPurchasePrice = safeRatio(stats.Purchases, stats.QuantityPurchased, decimal.NewFromInt(1))
		stats.ROIPct = safeRatio(stats.Profit, stats.Purchases, oneHundred)
	}
	return b
}

// DailyStats is the per-calendar-day fold: the overall summary shape plus
// activity counters.
type DailyStats struct {
	Date              string          `json:"date"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	SalesCount        int             `json:"salesCount"`
	TotalPurchases    decimal.Decimal `json:"totalPurchases"`
	PurchasesCount    int             `json:"purchasesCount"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	ExpensesCount     int             `json:"expensesCount"`
	TotalProfit       decimal.Decimal `json:"totalProfit"`
	ProfitMarginPct   decimal.Decimal `json:"profitMarginPct"`
	TransactionCount  int             `json:"transactionCount"`
	DistinctMaterials int             `json:"distinctMaterialsCount"`
	Efficiency        decimal.Decimal `json:"efficiency"`
}

// DailyBreakdown keys stats by calendar date (YYYY-MM-DD) in first-seen order.
type DailyBreakdown struct {
	Order []string               `json:"order"`
	Days  map[string]*DailyStats `json:"days"`
}

// DateKey is the locale-independent calendar-day key for a timestamp.
func DateKey(t *model.Transaction) string {
	return t.Timestamp.Format("2006-01-02")
}

// ComputeDailyBreakdown groups the sequence by calendar date and folds each
// day with the same rules as the overall summary.
func ComputeDailyBreakdown(txs iter.Seq[model.Transaction]) *DailyBreakdown {
	b := &DailyBreakdown{Days: map[string]*DailyStats{}}
	materials := map[string]map[string]struct{}{}

	for t := range txs {
		key := DateKey(&t)
		day, ok := b.Days[key]
		if !ok {
			day = &DailyStats{Date: key}
			b.Days[key] = day
			b.Order = append(b.Order, key)
			materials[key] = map[string]struct{}{}
		}

		switch t.Type {
		case model.TypeSale:
			day.TotalSales = day.TotalSales.Add(t.TotalValue)
			day.SalesCount++
		case model.TypePurchase:
			day.TotalPurchases = day.TotalPurchases.Add(t.TotalValue)
			day.PurchasesCount++
		case model.TypeExpense:
			day.TotalExpenses = day.TotalExpenses.Add(t.TotalValue)
			day.ExpensesCount++
		}
		day.TransactionCount++
		if t.Material != "" {
			materials[key][t.Material] = struct{}{}
		}
	}

	for key, day := range b.Days {
		day.TotalProfit = day.TotalSales.Sub(day.TotalPurchases).Sub(day.TotalExpenses)
		day.ProfitMarginPct = safeRatio(day.TotalProfit, day.TotalSales, oneHundred)
		day.DistinctMaterials = len(materials[key])
		day.Efficiency = safeRatio(day.TotalProfit, decimal.NewFromInt(int64(day.TransactionCount)), decimal.NewFromInt(1))
	}
	return b
}
