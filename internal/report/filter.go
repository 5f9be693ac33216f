package report

import (
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-scrapyard-ws/internal/model"
)

// QuickFilter is a named predicate shortcut composed with the explicit
// filters. All active filters are ANDed.
type QuickFilter string

const (
	QuickToday      QuickFilter = "today"
	QuickThisWeek   QuickFilter = "this-week"
	QuickHighValue  QuickFilter = "high-value"
	QuickProfitable QuickFilter = "profitable"
	QuickRecent     QuickFilter = "recent"
)

var highValueThreshold = decimal.NewFromInt(1000)

// Filter describes which transactions a report run should see. Zero values
// mean "not active". Now is the evaluation time for the time-relative quick
// filters; when zero, time.Now() is used.
type Filter struct {
	From          *time.Time
	To            *time.Time
	Type          model.TransactionType
	PaymentMethod model.PaymentMethod
	Material      string
	Search        string
	Quick         []QuickFilter
	Now           time.Time
}

// Predicate evaluates one transaction against the composed filter.
type Predicate func(t *model.Transaction) bool

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// avgPurchasePrices returns the mean purchase unit price per material across
// the full dataset. The "profitable" quick filter classifies sales against
// this, so it always looks at the unfiltered ledger.
func avgPurchasePrices(all []model.Transaction) map[string]decimal.Decimal {
	sums := map[string]decimal.Decimal{}
	counts := map[string]int64{}
	for i := range all {
		t := &all[i]
		if t.Type != model.TypePurchase || t.Material == "" {
			continue
		}
		sums[t.Material] = sums[t.Material].Add(t.UnitPrice)
		counts[t.Material]++
	}
	avgs := make(map[string]decimal.Decimal, len(sums))
	for material, sum := range sums {
		avgs[material] = sum.Div(decimal.NewFromInt(counts[material]))
	}
	return avgs
}

func (f Filter) searchMatch(t *model.Transaction) bool {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	haystacks := []string{
		t.Material,
		t.CounterpartyName,
		t.Notes,
		string(t.EffectivePaymentMethod()),
		string(t.Type),
		t.Quantity.String(),
		t.TotalValue.StringFixed(2),
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func (f Filter) quickPredicate(q QuickFilter, now time.Time, purchaseAvgs map[string]decimal.Decimal) Predicate {
	switch q {
	case QuickToday:
		today := dateOnly(now)
		return func(t *model.Transaction) bool {
			return dateOnly(t.Timestamp).Equal(today)
		}
	case QuickThisWeek:
		year, week := now.ISOWeek()
		return func(t *model.Transaction) bool {
			y, w := t.Timestamp.ISOWeek()
			return y == year && w == week
		}
	case QuickHighValue:
		return func(t *model.Transaction) bool {
			return t.TotalValue.GreaterThanOrEqual(highValueThreshold)
		}
	case QuickProfitable:
		// Sales only; a sale with no purchase history for its material
		// cannot be classified and is excluded.
		return func(t *model.Transaction) bool {
			if t.Type != model.TypeSale {
				return false
			}
			avg, ok := purchaseAvgs[t.Material]
			if !ok {
				return false
			}
			return t.UnitPrice.GreaterThan(avg)
		}
	case QuickRecent:
		// Compares the business timestamp, not the creation time.
		cutoff := now.AddDate(0, 0, -7)
		return func(t *model.Transaction) bool {
			return !t.Timestamp.Before(cutoff)
		}
	default:
		return func(*model.Transaction) bool { return true }
	}
}

// Predicate builds the composed AND predicate for this filter. The full
// unfiltered dataset is needed to resolve the "profitable" classification.
func (f Filter) Predicate(all []model.Transaction) Predicate {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}

	var parts []Predicate

	if f.From != nil {
		from := dateOnly(*f.From)
		parts = append(parts, func(t *model.Transaction) bool {
			return !dateOnly(t.Timestamp).Before(from)
		})
	}
	if f.To != nil {
		to := dateOnly(*f.To)
		parts = append(parts, func(t *model.Transaction) bool {
			return !dateOnly(t.Timestamp).After(to)
		})
	}
	if f.Type != "" {
		parts = append(parts, func(t *model.Transaction) bool {
			return t.Type == f.Type
		})
	}
	if f.PaymentMethod != "" {
		parts = append(parts, func(t *model.Transaction) bool {
			return t.EffectivePaymentMethod() == f.PaymentMethod
		})
	}
	if f.Material != "" {
		material := strings.ToLower(f.Material)
		parts = append(parts, func(t *model.Transaction) bool {
			return strings.ToLower(t.Material) == material
		})
	}
	if strings.TrimSpace(f.Search) != "" {
		parts = append(parts, f.searchMatch)
	}

	if len(f.Quick) > 0 {
		var purchaseAvgs map[string]decimal.Decimal
		for _, q := range f.Quick {
			if q == QuickProfitable && purchaseAvgs == nil {
				purchaseAvgs = avgPurchasePrices(all)
			}
			parts = append(parts, f.quickPredicate(q, now, purchaseAvgs))
		}
	}

	return func(t *model.Transaction) bool {
		for _, p := range parts {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// FilterTransactions produces a lazy, restartable sequence of the
// transactions matching the filter, in input order.
func FilterTransactions(all []model.Transaction, f Filter) iter.Seq[model.Transaction] {
	pred := f.Predicate(all)
	return func(yield func(model.Transaction) bool) {
		for i := range all {
			if pred(&all[i]) {
				if !yield(all[i]) {
					return
				}
			}
		}
	}
}

// Sequence adapts a plain slice for the aggregate functions.
func Sequence(txs []model.Transaction) iter.Seq[model.Transaction] {
	return func(yield func(model.Transaction) bool) {
		for i := range txs {
			if !yield(txs[i]) {
				return
			}
		}
	}
}
