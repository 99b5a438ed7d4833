package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/date"
	"github.com/tsiemens/capgains/log"
)

const WashSaleWindowDays = 30

const washSaleWindow = WashSaleWindowDays * date.Day

// WashSaleMatch pairs a loss-realizing sale with a repurchase of the same
// asset inside the wash-sale window.
type WashSaleMatch struct {
	LossTx          *Tx
	RepurchaseTx    *Tx
	Loss            decimal.Decimal // Magnitude of the realized loss
	RepurchaseValue decimal.Decimal
	DisallowedLoss  decimal.Decimal
	DaysApart       int
}

func GetLastDayInWashSalePeriod(saleDate time.Time) time.Time {
	return saleDate.Add(washSaleWindow)
}

type indexedTx struct {
	idx int
	tx  *Tx
}

// FindWashSales flags each loss sale in txs against every later (in input
// order) purchase of the same asset dated at most 30 days after the sale.
// Losses are read from gains, which must come from a replay of txs.
func FindWashSales(txs []*Tx, gains []*CapitalGain) []*WashSaleMatch {
	lossByTx := make(map[*Tx]decimal.Decimal)
	for _, g := range gains {
		if g.IsLoss() {
			lossByTx[g.Tx] = g.Gain.Abs()
		}
	}
	if len(lossByTx) == 0 {
		return nil
	}

	buysByAsset := make(map[string][]indexedTx)
	for i, tx := range txs {
		if tx.Kind == BUY {
			buysByAsset[tx.Asset] = append(buysByAsset[tx.Asset], indexedTx{i, tx})
		}
	}

	var matches []*WashSaleMatch
	for i, tx := range txs {
		loss, ok := lossByTx[tx]
		if !ok || tx.Kind != SELL {
			continue
		}
		lastDay := GetLastDayInWashSalePeriod(tx.Date)
		for _, buy := range buysByAsset[tx.Asset] {
			if buy.idx <= i || buy.tx.Date.After(lastDay) {
				continue
			}
			m := &WashSaleMatch{
				LossTx:          tx,
				RepurchaseTx:    buy.tx,
				Loss:            loss,
				RepurchaseValue: buy.tx.Value,
				DisallowedLoss:  decimal.Min(loss, buy.tx.Value),
				DaysApart:       date.DaysBetween(tx.Date, buy.tx.Date),
			}
			log.Tracef("wash", "loss %s on %s repurchased by %s, disallowed %s",
				loss, tx.Ref(), buy.tx.Ref(), m.DisallowedLoss)
			matches = append(matches, m)
		}
	}
	return matches
}

// DetectWashSales replays txs on a ledger of its own to find each sale's
// loss, then pairs the losses with repurchases.
func DetectWashSales(txs []*Tx, options Options) []*WashSaleMatch {
	res := replay(txs, options)
	return FindWashSales(txs, res.Gains)
}

func TotalDisallowedLoss(matches []*WashSaleMatch) decimal.Decimal {
	total := decimal.Zero
	for _, m := range matches {
		total = total.Add(m.DisallowedLoss)
	}
	return total
}
