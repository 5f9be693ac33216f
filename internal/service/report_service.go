package service

import (
	"github.com/sirupsen/logrus"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/report"
	"go-scrapyard-ws/internal/repository"
)

type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ReportService runs every report view through the same fold functions so
// the summary, material and daily tabs can never disagree.
type ReportService interface {
	Summary(f report.Filter) (report.Summary, error)
	Materials(f report.Filter, metric string, topN int) (*report.MaterialBreakdown, []report.Ranked, error)
	Daily(f report.Filter) (*report.DailyBreakdown, error)
	Period(f report.Filter, g Granularity) ([]report.PeriodReport, error)
}

type reportService struct {
	txRepo repository.TransactionRepository
	local  *fallback.Store
	log    *logrus.Logger
}

func NewReportService(txRepo repository.TransactionRepository, local *fallback.Store, log *logrus.Logger) ReportService {
	return &reportService{txRepo: txRepo, local: local, log: log}
}

func (s *reportService) Summary(f report.Filter) (report.Summary, error) {
	all := loadTransactions(s.txRepo, s.local, s.log)
	return report.ComputeSummary(report.FilterTransactions(all, f)), nil
}

func (s *reportService) Materials(f report.Filter, metric string, topN int) (*report.MaterialBreakdown, []report.Ranked, error) {
	all := loadTransactions(s.txRepo, s.local, s.log)
	breakdown := report.ComputeMaterialBreakdown(report.FilterTransactions(all, f))
	ranked := report.RankTopN(breakdown, metric, topN)
	return breakdown, ranked, nil
}

func (s *reportService) Daily(f report.Filter) (*report.DailyBreakdown, error) {
	all := loadTransactions(s.txRepo, s.local, s.log)
	return report.ComputeDailyBreakdown(report.FilterTransactions(all, f)), nil
}

// Period folds per-day reports into monthly or yearly summaries instead of
// re-scanning the ledger per period.
func (s *reportService) Period(f report.Filter, g Granularity) ([]report.PeriodReport, error) {
	all := loadTransactions(s.txRepo, s.local, s.log)
	daily := report.ComputeDailyReports(report.FilterTransactions(all, f))

	keyLen := 7 // YYYY-MM
	if g == GranularityYear {
		keyLen = 4 // YYYY
	}

	var order []string
	groups := map[string][]report.DailyReport{}
	for _, day := range daily {
		key := day.Date
		if len(key) > keyLen {
			key = key[:keyLen]
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], day)
	}

	periods := make([]report.PeriodReport, 0, len(order))
	for _, key := range order {
		p := report.AggregatePeriod(groups[key])
		p.Period = key
		periods = append(periods, p)
	}
	return periods, nil
}
