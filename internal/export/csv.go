package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"go-scrapyard-ws/internal/model"
)

// utf8BOM is prepended so spreadsheet tools pick up the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{
	"date", "type", "material", "quantity", "unit_price", "total", "counterparty", "notes",
}

// WriteCSV writes one row per transaction in the fixed export column order.
// The delimiter is configurable (comma or semicolon, depending on the
// spreadsheet locale the yard uses).
func WriteCSV(w io.Writer, txs []model.Transaction, delimiter rune) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range txs {
		t := &txs[i]
		row := []string{
			t.Timestamp.Format("2006-01-02"),
			string(t.Type),
			t.Material,
			t.Quantity.String(),
			t.UnitPrice.StringFixed(2),
			t.TotalValue.StringFixed(2),
			t.CounterpartyName,
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
