package service_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/report"
	"go-scrapyard-ws/internal/repository"
	"go-scrapyard-ws/internal/service"
)

// stubTxRepo serves a canned ledger, or fails every read when err is set.
type stubTxRepo struct {
	txs []model.Transaction
	err error
}

func (r *stubTxRepo) Create(_ *gorm.DB, _ *model.Transaction) error { return r.err }
func (r *stubTxRepo) Update(_ *gorm.DB, _ *model.Transaction) error { return r.err }
func (r *stubTxRepo) Delete(_ *gorm.DB, _ uuid.UUID) error          { return r.err }

func (r *stubTxRepo) FindAll() ([]model.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.txs, nil
}

func (r *stubTxRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.txs {
		if r.txs[i].ID == id {
			return &r.txs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTxRepo) GetMovement(_, _ time.Time) ([]repository.MovementPoint, error) {
	return nil, r.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ledgerTx(txType model.TransactionType, material, total, day string) model.Transaction {
	ts, _ := time.Parse("2006-01-02", day)
	t := model.Transaction{
		Type:       txType,
		Material:   material,
		Quantity:   decimal.NewFromInt(1),
		UnitPrice:  decimal.RequireFromString(total),
		TotalValue: decimal.RequireFromString(total),
		Timestamp:  ts,
	}
	t.ID = uuid.New()
	return t
}

func TestReportServiceSummary(t *testing.T) {
	repo := &stubTxRepo{txs: []model.Transaction{
		ledgerTx(model.TypeSale, "iron", "100.00", "2026-01-10"),
		ledgerTx(model.TypePurchase, "iron", "40.00", "2026-01-10"),
	}}
	svc := service.NewReportService(repo, fallback.NewStore(), quietLogger())

	s, err := svc.Summary(report.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "60.00", s.TotalProfit.StringFixed(2))
}

func TestReportServicePeriodGrouping(t *testing.T) {
	repo := &stubTxRepo{txs: []model.Transaction{
		ledgerTx(model.TypeSale, "iron", "100.00", "2026-01-10"),
		ledgerTx(model.TypeSale, "iron", "50.00", "2026-01-20"),
		ledgerTx(model.TypeSale, "iron", "30.00", "2026-02-05"),
		ledgerTx(model.TypeSale, "iron", "10.00", "2025-12-31"),
	}}
	svc := service.NewReportService(repo, fallback.NewStore(), quietLogger())

	months, err := svc.Period(report.Filter{}, service.GranularityMonth)
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, "2026-01", months[0].Period)
	assert.Equal(t, "150.00", months[0].TotalSales.StringFixed(2))
	assert.Equal(t, 2, months[0].Days)
	assert.Equal(t, "2026-02", months[1].Period)
	assert.Equal(t, "2025-12", months[2].Period)

	years, err := svc.Period(report.Filter{}, service.GranularityYear)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, "2026", years[0].Period)
	assert.Equal(t, "180.00", years[0].TotalSales.StringFixed(2))
	assert.Equal(t, "2025", years[1].Period)
}

// When the record store is down, reports serve the local mirror and flag the
// connection degraded instead of failing.
func TestReportServiceFallsBackToMirror(t *testing.T) {
	local := fallback.NewStore()
	local.ReplaceSnapshot([]model.Transaction{
		ledgerTx(model.TypeSale, "iron", "75.00", "2026-01-10"),
	}, nil)

	repo := &stubTxRepo{err: errors.New("connection refused")}
	svc := service.NewReportService(repo, local, quietLogger())

	s, err := svc.Summary(report.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "75.00", s.TotalSales.StringFixed(2))
	assert.False(t, local.Connected())
}
