package service

import (
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"go-scrapyard-ws/internal/export"
	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/report"
	"go-scrapyard-ws/internal/repository"
)

// ExportService streams the filtered ledger as CSV or XLSX.
type ExportService interface {
	WriteCSV(w io.Writer, f report.Filter) error
	WriteXLSX(w io.Writer, f report.Filter) error
}

type exportService struct {
	txRepo    repository.TransactionRepository
	local     *fallback.Store
	delimiter rune
	log       *logrus.Logger
}

func NewExportService(txRepo repository.TransactionRepository, local *fallback.Store, delimiter rune, log *logrus.Logger) ExportService {
	return &exportService{txRepo: txRepo, local: local, delimiter: delimiter, log: log}
}

func (s *exportService) WriteCSV(w io.Writer, f report.Filter) error {
	all := loadTransactions(s.txRepo, s.local, s.log)
	filtered := slices.Collect(report.FilterTransactions(all, f))
	if err := export.WriteCSV(w, filtered, s.delimiter); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	return nil
}

func (s *exportService) WriteXLSX(w io.Writer, f report.Filter) error {
	all := loadTransactions(s.txRepo, s.local, s.log)
	filtered := slices.Collect(report.FilterTransactions(all, f))
	summary := report.ComputeSummary(report.Sequence(filtered))

	workbook, err := export.NewWorkbook(filtered, summary)
	if err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	if err := workbook.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
