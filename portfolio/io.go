package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/date"
	"github.com/tsiemens/capgains/log"
)

var CsvDateFormat string = date.DefaultFormat

type ColParser func(string, *txRow) error

var colParserMap = map[string]ColParser{
	"id":                    parseId,
	"date":                  parseDate,
	"type":                  parseKind,
	"action":                parseKind,
	"kind":                  parseKind,
	"asset":                 parseAsset,
	"security":              parseAsset,
	"symbol":                parseAsset,
	"amount":                parseQuantity,
	"quantity":              parseQuantity,
	"shares":                parseQuantity,
	"value":                 parseValue,
	"price":                 parsePrice,
	"fee":                   parseFee,
	"tx hash":               parseTxHash,
	"hash":                  parseTxHash,
	"transaction reference": parseTxHash,
	"category":              parseCategory,
	"description":           parseDescription,
	"memo":                  parseDescription,
	"lots":                  parseLots,
}

var ColNames []string

func init() {
	ColNames = make([]string, 0, len(colParserMap))
	for name := range colParserMap {
		ColNames = append(ColNames, name)
	}
	sort.Strings(ColNames)
}

// txRow is a Tx being parsed. Value may be given directly or as a per-unit
// price, so the price is held until the whole row is read.
type txRow struct {
	tx       *Tx
	price    decimal.Decimal
	hasPrice bool
	hasValue bool
}

func DefaultTx() *Tx {
	return &Tx{
		Kind:     NO_KIND,
		Quantity: decimal.Zero, Value: decimal.Zero, Fee: decimal.Zero,
	}
}

func CheckTxSanity(tx *Tx) error {
	if tx.Asset == "" {
		return fmt.Errorf("Transaction has no asset")
	} else if (tx.Date == time.Time{}) {
		return fmt.Errorf("Transaction has no date")
	} else if tx.Kind == NO_KIND {
		return fmt.Errorf("Transaction has no type (Buy, Sell, ...)")
	} else if tx.Quantity.IsNegative() {
		return fmt.Errorf("Transaction has a negative amount (%s)", tx.Quantity)
	} else if tx.Value.IsNegative() {
		return fmt.Errorf("Transaction has a negative value (%s)", tx.Value)
	} else if tx.Fee.IsNegative() {
		return fmt.Errorf("Transaction has a negative fee (%s)", tx.Fee)
	} else if len(tx.LotIds) > 0 && tx.Kind != SELL {
		return fmt.Errorf("Lots can only be selected on a Sell")
	}
	return nil
}

func ParseTxCsv(reader io.Reader, initialGlobalReadIndex uint32,
	csvDesc string, errPrinter log.ErrorPrinter) ([]*Tx, error) {

	csvR := csv.NewReader(reader)
	csvR.TrimLeadingSpace = true
	records, err := csvR.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failed to parse CSV %s: %w", csvDesc, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("No rows found in %s", csvDesc)
	}

	header := records[0]

	colParsers := make([]ColParser, len(header))

	for i, col := range header {
		sanCol := strings.TrimSpace(strings.ToLower(col))
		if parser, ok := colParserMap[sanCol]; ok {
			colParsers[i] = parser
		} else {
			errPrinter.F("Warning: Unrecognized column %s in %s\n", sanCol, csvDesc)
			colParsers[i] = parseNothing
		}
	}

	txs := make([]*Tx, 0, len(records)-1)
	// Data rows start on line 2, after the header.
	globalRowIndex := initialGlobalReadIndex
	for i, record := range records[1:] {
		tx := DefaultTx()
		row := &txRow{tx: tx}
		for j, col := range record {
			err = colParsers[j](strings.TrimSpace(col), row)
			if err != nil {
				return nil, fmt.Errorf("Error parsing %s at line:col %d:%d: %w", csvDesc, i+2, j, err)
			}
		}
		if row.hasPrice && !row.hasValue {
			tx.Value = row.price.Mul(tx.Quantity)
		}
		err = CheckTxSanity(tx)
		if err != nil {
			return nil, fmt.Errorf("Error parsing %s at line %d: %w", csvDesc, i+2, err)
		}
		tx.ReadIndex = globalRowIndex
		globalRowIndex++
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseNothing(data string, row *txRow) error {
	return nil
}

func parseId(data string, row *txRow) error {
	row.tx.Id = data
	return nil
}

func parseDate(data string, row *txRow) error {
	if data == "" {
		return nil
	}
	t, err := date.ParseTime(CsvDateFormat, data)
	if err != nil {
		return err
	}
	row.tx.Date = t
	return nil
}

func parseKind(data string, row *txRow) error {
	row.tx.Kind = ParseTxKind(data)
	if row.tx.Kind == OTHER {
		row.tx.RawKind = data
	}
	return nil
}

func parseAsset(data string, row *txRow) error {
	row.tx.Asset = data
	return nil
}

func parseDecimal(data string, what string) (decimal.Decimal, error) {
	if data == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(data, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("Error parsing %s: %v", what, err)
	}
	return d, nil
}

func parseQuantity(data string, row *txRow) (err error) {
	row.tx.Quantity, err = parseDecimal(data, "amount")
	return
}

func parseValue(data string, row *txRow) (err error) {
	if data == "" {
		return nil
	}
	row.tx.Value, err = parseDecimal(data, "value")
	row.hasValue = err == nil
	return
}

func parsePrice(data string, row *txRow) (err error) {
	if data == "" {
		return nil
	}
	row.price, err = parseDecimal(data, "price")
	row.hasPrice = err == nil
	return
}

func parseFee(data string, row *txRow) (err error) {
	row.tx.Fee, err = parseDecimal(data, "fee")
	return
}

func parseTxHash(data string, row *txRow) error {
	row.tx.TxHash = data
	return nil
}

func parseCategory(data string, row *txRow) error {
	row.tx.Category = data
	return nil
}

func parseDescription(data string, row *txRow) error {
	row.tx.Description = data
	return nil
}

func parseLots(data string, row *txRow) error {
	row.tx.LotIds = nil
	for _, id := range strings.Split(data, ";") {
		if id = strings.TrimSpace(id); id != "" {
			row.tx.LotIds = append(row.tx.LotIds, id)
		}
	}
	return nil
}
