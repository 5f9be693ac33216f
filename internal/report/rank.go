package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Ranked is one entry of a top-N ranking.
type Ranked struct {
	Material string          `json:"material"`
	Value    decimal.Decimal `json:"value"`
	Stats    *MaterialStats  `json:"stats"`
}

func metricValue(s *MaterialStats, metric string) decimal.Decimal {
	switch metric {
	case "sales":
		return s.Sales
	case "purchases":
		return s.Purchases
	case "quantitySold":
		return s.QuantitySold
	case "quantityPurchased":
		return s.QuantityPurchased
	case "marginPct":
		return s.MarginPct
	case "roiPct":
		return s.ROIPct
	default:
		return s.Profit
	}
}

// RankTopN sorts the breakdown descending by the given metric and returns the
// first n entries. The sort is stable over the breakdown's first-seen order,
// so equal values keep a reproducible ranking. n <= 0 returns all entries.
func RankTopN(b *MaterialBreakdown, metric string, n int) []Ranked {
	ranked := make([]Ranked, 0, len(b.Order))
	for _, material := range b.Order {
		stats := b.Items[material]
		ranked = append(ranked, Ranked{
			Material: material,
			Value:    metricValue(stats, metric),
			Stats:    stats,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value.GreaterThan(ranked[j].Value)
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
