package report_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/report"
)

func collect(all []model.Transaction, f report.Filter) []model.Transaction {
	return slices.Collect(report.FilterTransactions(all, f))
}

func TestFilterDateRange(t *testing.T) {
	all := []model.Transaction{
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-05"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-10"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-15"),
	}

	from, _ := time.Parse("2006-01-02", "2026-01-10")
	to, _ := time.Parse("2006-01-02", "2026-01-10")

	got := collect(all, report.Filter{From: &from, To: &to})
	require.Len(t, got, 1, "bounds are inclusive at day granularity")
	assert.Equal(t, "2026-01-10", got[0].Timestamp.Format("2006-01-02"))
}

func TestFilterTypeAndPaymentMethod(t *testing.T) {
	pixSale := tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-10")
	pixSale.PaymentMethod = model.PaymentPix
	cashSale := tx(model.TypeSale, "copper", "1", "10", "10.00", "2026-01-10")
	legacySale := tx(model.TypeSale, "brass", "1", "10", "10.00", "2026-01-10")
	legacySale.PaymentMethod = ""

	all := []model.Transaction{pixSale, cashSale, legacySale}

	got := collect(all, report.Filter{PaymentMethod: model.PaymentCash})
	assert.Len(t, got, 2, "records without a payment method count as cash")

	got = collect(all, report.Filter{Type: model.TypeSale, PaymentMethod: model.PaymentPix})
	require.Len(t, got, 1)
	assert.Equal(t, "iron", got[0].Material)
}

func TestFilterSearch(t *testing.T) {
	a := tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-10")
	a.CounterpartyName = "Recicla SA"
	b := tx(model.TypePurchase, "copper", "1", "10", "10.00", "2026-01-10")
	b.Notes = "picked up at the docks"

	all := []model.Transaction{a, b}

	got := collect(all, report.Filter{Search: "recicla"})
	require.Len(t, got, 1)
	assert.Equal(t, "iron", got[0].Material)

	got = collect(all, report.Filter{Search: "DOCKS"})
	require.Len(t, got, 1)
	assert.Equal(t, "copper", got[0].Material)

	got = collect(all, report.Filter{Search: "10.00"})
	assert.Len(t, got, 2, "totals are searchable")
}

func TestQuickFilterToday(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2026-01-10T15:00:00Z")
	all := []model.Transaction{
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-10"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-09"),
	}

	got := collect(all, report.Filter{Quick: []report.QuickFilter{report.QuickToday}, Now: now})
	require.Len(t, got, 1)
	assert.Equal(t, "2026-01-10", got[0].Timestamp.Format("2006-01-02"))
}

func TestQuickFilterThisWeek(t *testing.T) {
	// 2026-01-07 is a Wednesday; its ISO week runs Jan 5 through Jan 11.
	now, _ := time.Parse(time.RFC3339, "2026-01-07T12:00:00Z")
	all := []model.Transaction{
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-05"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-11"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-04"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-12"),
	}

	got := collect(all, report.Filter{Quick: []report.QuickFilter{report.QuickThisWeek}, Now: now})
	assert.Len(t, got, 2)
}

func TestQuickFilterHighValue(t *testing.T) {
	all := []model.Transaction{
		tx(model.TypeSale, "iron", "100", "10", "1000.00", "2026-01-10"),
		tx(model.TypeSale, "iron", "99", "10", "999.99", "2026-01-10"),
	}

	got := collect(all, report.Filter{Quick: []report.QuickFilter{report.QuickHighValue}})
	require.Len(t, got, 1, "threshold is inclusive at 1000")
	assert.Equal(t, "1000.00", got[0].TotalValue.StringFixed(2))
}

func TestQuickFilterProfitable(t *testing.T) {
	all := []model.Transaction{
		// Purchase history for iron averages 2.50/kg.
		tx(model.TypePurchase, "iron", "10", "2.00", "20.00", "2026-01-01"),
		tx(model.TypePurchase, "iron", "10", "3.00", "30.00", "2026-01-02"),
		// Above average: profitable.
		tx(model.TypeSale, "iron", "5", "3.00", "15.00", "2026-01-10"),
		// Below average: not profitable.
		tx(model.TypeSale, "iron", "5", "2.00", "10.00", "2026-01-10"),
		// No purchase history for this material: unclassifiable, excluded.
		tx(model.TypeSale, "titanium", "1", "100", "100.00", "2026-01-10"),
	}

	got := collect(all, report.Filter{Quick: []report.QuickFilter{report.QuickProfitable}})
	require.Len(t, got, 1)
	assert.Equal(t, "iron", got[0].Material)
	assert.Equal(t, "3.00", got[0].UnitPrice.StringFixed(2))
}

// The profitable classification always uses the full ledger's purchase
// averages, even when other filters narrow the visible set.
func TestQuickFilterProfitableUsesFullDataset(t *testing.T) {
	from, _ := time.Parse("2006-01-02", "2026-01-10")
	all := []model.Transaction{
		tx(model.TypePurchase, "iron", "10", "2.50", "25.00", "2026-01-01"),
		tx(model.TypeSale, "iron", "5", "3.00", "15.00", "2026-01-10"),
	}

	got := collect(all, report.Filter{
		From:  &from,
		Quick: []report.QuickFilter{report.QuickProfitable},
	})
	require.Len(t, got, 1, "purchase outside the date range still informs the average")
}

func TestQuickFilterRecentUsesBusinessTimestamp(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2026-01-10T12:00:00Z")

	old := tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-01")
	old.CreatedAt = now
	fresh := tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-08")

	got := collect([]model.Transaction{old, fresh}, report.Filter{
		Quick: []report.QuickFilter{report.QuickRecent},
		Now:   now,
	})
	require.Len(t, got, 1)
	assert.Equal(t, "2026-01-08", got[0].Timestamp.Format("2006-01-02"))
}

// Composing filters must match applying each predicate independently and
// intersecting the results.
func TestFilterComposition(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2026-01-10T12:00:00Z")
	all := []model.Transaction{
		tx(model.TypeSale, "iron", "200", "10", "2000.00", "2026-01-10"),
		tx(model.TypeSale, "copper", "200", "10", "2000.00", "2026-01-10"),
		tx(model.TypeSale, "iron", "1", "10", "10.00", "2026-01-10"),
		tx(model.TypePurchase, "iron", "300", "10", "3000.00", "2026-01-10"),
	}

	composed := collect(all, report.Filter{
		Type:     model.TypeSale,
		Material: "iron",
		Quick:    []report.QuickFilter{report.QuickHighValue},
		Now:      now,
	})

	byType := collect(all, report.Filter{Type: model.TypeSale})
	intersected := 0
	for _, t1 := range byType {
		if t1.Material == "iron" && t1.TotalValue.GreaterThanOrEqual(dec("1000")) {
			intersected++
		}
	}

	require.Len(t, composed, 1)
	assert.Equal(t, intersected, len(composed))
	assert.Equal(t, "2000.00", composed[0].TotalValue.StringFixed(2))
}
