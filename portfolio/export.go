package portfolio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ExportHeader = []string{
	"Date", "Type", "Asset", "Amount", "Price", "Value", "Fee",
	"Category", "Description", "Transaction Reference",
}

const exportDateFormat = "2006-01-02"

// DefaultCategory is the export category of a tx which carries none.
func DefaultCategory(tx *Tx) string {
	switch tx.Kind {
	case BUY:
		return "Acquisition"
	case SELL:
		return "Disposal"
	default:
		return "Other"
	}
}

func exportDate(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(exportDateFormat)
	}
	return t.Format(time.RFC3339Nano)
}

func exportDecimal(d decimal.Decimal) string {
	return d.String()
}

// ExportRow is the tabular export of one transaction.
func ExportRow(tx *Tx) []string {
	price := ""
	if !tx.Quantity.IsZero() {
		price = exportDecimal(tx.Price())
	}
	category := tx.Category
	if category == "" {
		category = DefaultCategory(tx)
	}
	ref := tx.TxHash
	if ref == "" {
		ref = tx.Id
	}
	return []string{
		exportDate(tx.Date),
		tx.KindString(),
		tx.Asset,
		exportDecimal(tx.Quantity),
		price,
		exportDecimal(tx.Value),
		exportDecimal(tx.Fee),
		category,
		tx.Description,
		ref,
	}
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeQuotedRecord(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteField(f)
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

// WriteExportCsv writes one row per transaction, every field quoted.
func WriteExportCsv(w io.Writer, txs []*Tx) error {
	if err := writeQuotedRecord(w, ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		if err := writeQuotedRecord(w, ExportRow(tx)); err != nil {
			return fmt.Errorf("write row for %s: %w", tx.Ref(), err)
		}
	}
	return nil
}
