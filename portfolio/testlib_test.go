package portfolio

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tsiemens/capgains/date"
	"github.com/tsiemens/capgains/util"
)

var DInt = decimal.NewFromInt
var DStr = decimal.RequireFromString

const DefaultTestAsset string = "FOO"

func mkDateYD(year int, day int) time.Time {
	return date.New(year, time.January, 1).AddDays(day).UTCTime()
}

func mkDate(day int) time.Time {
	return mkDateYD(2023, day)
}

func mkYMD(year int, month time.Month, day int) time.Time {
	return date.New(year, month, day).UTCTime()
}

// Test Tx
type TTx struct {
	Id        string
	Asset     string // Defaults to DefaultTestAsset
	Day       int    // Day offset into 2023. Convenience for Date
	Date      time.Time
	Kind      TxKind
	Qty       decimal.Decimal
	Value     decimal.Decimal // Takes precedence over Price
	Price     decimal.Decimal
	Fee       decimal.Decimal
	Lots      []string
	ReadIndex uint32
}

// eXpand to full type.
func (t TTx) X() *Tx {
	asset := util.Tern(t.Asset != "", t.Asset, DefaultTestAsset)
	txDate := t.Date
	if t.Day != 0 {
		util.Assert(t.Date.IsZero())
		txDate = mkDate(t.Day)
	}
	value := t.Value
	if value.IsZero() {
		value = t.Price.Mul(t.Qty)
	}
	return &Tx{
		Id:        t.Id,
		Kind:      t.Kind,
		Asset:     asset,
		Quantity:  t.Qty,
		Value:     value,
		Date:      txDate,
		Fee:       t.Fee,
		LotIds:    t.Lots,
		ReadIndex: t.ReadIndex,
	}
}

// mkTxs expands ttxs, assigning read indices in order.
func mkTxs(ttxs ...TTx) []*Tx {
	txs := make([]*Tx, 0, len(ttxs))
	for i, t := range ttxs {
		t.ReadIndex = uint32(i)
		txs = append(txs, t.X())
	}
	return txs
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func rqDecEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, DStr(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
