package portfolio

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TxKind int

const (
	NO_KIND TxKind = iota
	BUY
	SELL
	// Anything else (transfers, staking rewards, ...). Counted, never matched.
	OTHER
)

func (k TxKind) String() string {
	var name string = "invalid"
	switch k {
	case BUY:
		name = "Buy"
	case SELL:
		name = "Sell"
	case OTHER:
		name = "Other"
	default:
	}
	return name
}

func ParseTxKind(s string) TxKind {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "":
		return NO_KIND
	case "buy":
		return BUY
	case "sell":
		return SELL
	default:
		return OTHER
	}
}

type Tx struct {
	Id          string
	Kind        TxKind
	RawKind     string // As it appeared in the input, for OTHER kinds.
	Asset       string
	Quantity    decimal.Decimal
	Value       decimal.Decimal // Total monetary value of the transaction
	Date        time.Time
	Fee         decimal.Decimal
	TxHash      string
	Category    string
	Description string
	// For SELLs under SpecificID: the lots to dispose of, in order.
	LotIds []string

	// The absolute order in which the Tx was read from file or entered.
	ReadIndex uint32
}

func (t *Tx) KindString() string {
	if t.Kind == OTHER && t.RawKind != "" {
		return t.RawKind
	}
	return t.Kind.String()
}

// Price is the value per unit, or zero for a zero quantity.
func (t *Tx) Price() decimal.Decimal {
	if t.Quantity.IsZero() {
		return decimal.Zero
	}
	return t.Value.Div(t.Quantity)
}

func (t *Tx) String() string {
	return fmt.Sprintf("%s %s %s %s (value %s) on %s",
		t.Ref(), t.KindString(), t.Quantity, t.Asset, t.Value, t.Date.Format(time.RFC3339))
}

// Ref is a short human reference to the Tx, for messages.
func (t *Tx) Ref() string {
	if t.Id != "" {
		return t.Id
	}
	return fmt.Sprintf("#%d", t.ReadIndex)
}

var txIdNamespace = uuid.MustParse("6f1c4a2e-9a0b-4d55-8f3e-2b7d51a4c0de")

// GeneratedTxId derives a stable id for a Tx that was given none, from its
// asset, date and read position. The same input always yields the same id.
func GeneratedTxId(tx *Tx) string {
	name := fmt.Sprintf("%s|%d|%d", tx.Asset, tx.Date.UnixMilli(), tx.ReadIndex)
	return uuid.NewSHA1(txIdNamespace, []byte(name)).String()
}

type txSorter struct {
	Txs []*Tx
}

func (s *txSorter) Len() int {
	return len(s.Txs)
}

func (s *txSorter) Swap(i, j int) {
	s.Txs[i], s.Txs[j] = s.Txs[j], s.Txs[i]
}

func (s *txSorter) Less(i, j int) bool {
	if s.Txs[i].Date.Equal(s.Txs[j].Date) {
		return s.Txs[i].ReadIndex < s.Txs[j].ReadIndex
	}
	return s.Txs[i].Date.Before(s.Txs[j].Date)
}

// SortTxs orders txs by date, keeping read order for same-instant txs.
// The returned slice is a copy; the input is left as is.
func SortTxs(txs []*Tx) []*Tx {
	sorted := make([]*Tx, len(txs))
	copy(sorted, txs)
	sort.Stable(&txSorter{Txs: sorted})
	return sorted
}
