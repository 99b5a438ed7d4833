package portfolio

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFifoScenario(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "B", Date: mkYMD(2023, 1, 1), Kind: BUY, Qty: DInt(100), Value: DInt(100), Fee: DInt(1)},
		TTx{Id: "S", Date: mkYMD(2023, 6, 1), Kind: SELL, Qty: DInt(60), Value: DInt(90), Fee: DInt(2)},
	)
	res := replay(txs, NewOptions(FIFO))
	rq.Empty(res.Issues)
	rq.Len(res.Gains, 1)
	g := res.Gains[0]
	rqDecEqual(t, "60", g.CostBasis)
	rqDecEqual(t, "30", g.Gain)
	rq.False(g.IsLongTerm)
	lot, _ := res.Ledger.Lot("B")
	rqDecEqual(t, "40", lot.RemainingQuantity)

	s := BuildTaxSummary(txs, NewOptions(FIFO))
	rq.Equal(FIFO, s.Method)
	rq.Equal(0, s.Year)
	rqDecEqual(t, "30", s.NetGain)
	rqDecEqual(t, "30", s.ShortTermGains)
	rqDecEqual(t, "0", s.LongTermGains)
	rqDecEqual(t, "3", s.TotalFees)
	rq.Equal(2, s.TransactionCount)
	rq.Equal([]string{DefaultTestAsset}, s.Assets)
}

func TestLifoScenario(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "L1", Date: mkYMD(2022, 1, 1), Kind: BUY, Qty: DInt(10), Value: DInt(100)},
		TTx{Id: "L2", Date: mkYMD(2023, 1, 1), Kind: BUY, Qty: DInt(10), Value: DInt(150)},
		TTx{Date: mkYMD(2023, 2, 1), Kind: SELL, Qty: DInt(15), Value: DInt(270)},
	)
	s := BuildTaxSummary(txs, NewOptions(LIFO))
	rq.Len(s.Gains, 1)
	g := s.Gains[0]
	rqDecEqual(t, "200", g.CostBasis)
	rqDecEqual(t, "70", g.Gain)
	// Earliest lot consumed was bought in 2022-01-01, 396 days prior
	rq.True(g.IsLongTerm)
	rqDecEqual(t, "70", s.LongTermGains)
}

func TestReplayIssues(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		// Orphan: nothing held yet
		TTx{Id: "S0", Day: 1, Kind: SELL, Qty: DInt(1), Value: DInt(5), Fee: DInt(1)},
		TTx{Id: "B1", Day: 2, Kind: BUY, Qty: DInt(10), Value: DInt(100)},
		// Over-sell: partial coverage
		TTx{Id: "S1", Day: 3, Kind: SELL, Qty: DInt(15), Value: DInt(150)},
		TTx{Id: "B2", Day: 4, Kind: BUY, Qty: DInt(4), Value: DInt(40)},
		TTx{Id: "X", Day: 5, Kind: OTHER, Qty: DInt(4), Value: DInt(40), Fee: DInt(7)},
	)
	s := BuildTaxSummary(txs, NewOptions(FIFO))
	rq.Len(s.Issues, 2)
	rq.Equal(OrphanSale, s.Issues[0].Kind)
	rq.Equal("S0", s.Issues[0].Tx.Id)
	rq.Equal(IncompleteCoverage, s.Issues[1].Kind)
	rqDecEqual(t, "15", s.Issues[1].Requested)
	rqDecEqual(t, "10", s.Issues[1].Matched)
	rq.Contains(s.Issues[1].String(), "matched only 10")

	// The partial sale still realizes a gain on what was matched
	rq.Len(s.Gains, 1)
	rqDecEqual(t, "50", s.Gains[0].Gain)
	rqDecEqual(t, "10", s.Gains[0].MatchedQuantity)
	// Fees of OTHER txs are ignored. Orphan fees are not.
	rqDecEqual(t, "1", s.TotalFees)
	rq.Equal(5, s.TransactionCount)
}

func TestReplayInvalidSpecificId(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "B1", Day: 1, Kind: BUY, Qty: DInt(10), Value: DInt(100)},
		TTx{Id: "S1", Day: 2, Kind: SELL, Qty: DInt(5), Value: DInt(80), Lots: []string{"nope"}},
		TTx{Id: "S2", Day: 3, Kind: SELL, Qty: DInt(5), Value: DInt(80)},
		TTx{Id: "S3", Day: 4, Kind: SELL, Qty: DInt(5), Value: DInt(80), Lots: []string{"B1"}},
	)
	res := replay(txs, NewOptions(SpecificID))
	rq.Len(res.Issues, 2)
	rq.Equal(InvalidConsumption, res.Issues[0].Kind)
	rq.ErrorIs(res.Issues[0].Err, ErrUnknownLot)
	rq.Equal(InvalidConsumption, res.Issues[1].Kind)
	rq.ErrorIs(res.Issues[1].Err, ErrNoLotSelection)

	// Aborted sales leave the lot alone
	rq.Len(res.Gains, 1)
	rq.Equal("S3", res.Gains[0].Tx.Id)
	lot, _ := res.Ledger.Lot("B1")
	rqDecEqual(t, "5", lot.RemainingQuantity)
}

func TestReplayInputOrder(t *testing.T) {
	rq := require.New(t)

	// The sell is read before the buy. Input order rules, so it is an orphan.
	txs := mkTxs(
		TTx{Day: 5, Kind: SELL, Qty: DInt(1), Value: DInt(5)},
		TTx{Day: 1, Kind: BUY, Qty: DInt(1), Value: DInt(1)},
	)
	s := BuildTaxSummary(txs, NewOptions(FIFO))
	rq.Empty(s.Gains)
	rq.Equal(OrphanSale, s.Issues[0].Kind)

	s = BuildTaxSummary(SortTxs(txs), NewOptions(FIFO))
	rq.Empty(s.Issues)
	rqDecEqual(t, "4", s.NetGain)
}

func TestBuildTaxSummaryIsRepeatable(t *testing.T) {
	rq := require.New(t)

	txs := mkTxs(
		TTx{Id: "A", Day: 1, Kind: BUY, Qty: DInt(10), Value: DInt(100)},
		TTx{Id: "B", Asset: "BAR", Day: 2, Kind: BUY, Qty: DInt(3), Value: DInt(30)},
		TTx{Day: 3, Kind: SELL, Qty: DInt(4), Value: DInt(20)},
		TTx{Asset: "BAR", Day: 4, Kind: SELL, Qty: DInt(5), Value: DInt(100)},
	)
	s1 := BuildTaxSummary(txs, NewOptions(LIFO))
	s2 := BuildTaxSummary(txs, NewOptions(LIFO))
	diff := cmp.Diff(s1, s2, decimalComparer)
	rq.True(diff == "", diff)
	rq.Equal([]string{"BAR", "FOO"}, s1.Assets)
}

func TestReplayRandomInvariants(t *testing.T) {
	rq := require.New(t)
	rnd := rand.New(rand.NewSource(42))
	assets := []string{"FOO", "BAR", "BAZ"}

	for round := 0; round < 50; round++ {
		var ttxs []TTx
		for i := 0; i < 40; i++ {
			ttx := TTx{
				Asset: assets[rnd.Intn(len(assets))],
				Day:   1 + rnd.Intn(700),
				Qty:   DInt(int64(1 + rnd.Intn(20))),
				Value: DInt(int64(1 + rnd.Intn(1000))),
				Fee:   DInt(int64(rnd.Intn(3))),
			}
			ttx.Kind = BUY
			if rnd.Intn(2) == 0 {
				ttx.Kind = SELL
			}
			ttxs = append(ttxs, ttx)
		}
		txs := SortTxs(mkTxs(ttxs...))
		method := []CostBasisMethod{FIFO, LIFO}[round%2]
		res := replay(txs, NewOptions(method))

		bought := map[string]decimal.Decimal{}
		nSells := 0
		for _, tx := range txs {
			if tx.Kind == BUY {
				bought[tx.Asset] = bought[tx.Asset].Add(tx.Quantity)
			} else {
				nSells++
			}
		}
		matched := map[string]decimal.Decimal{}
		for _, g := range res.Gains {
			rq.True(g.MatchedQuantity.LessThanOrEqual(g.Quantity))
			rq.True(g.Gain.Equal(g.Proceeds.Sub(g.CostBasis)))
			matched[g.Asset] = matched[g.Asset].Add(g.MatchedQuantity)
		}
		for _, asset := range assets {
			for _, lot := range res.Ledger.Lots(asset) {
				rq.False(lot.RemainingQuantity.IsNegative())
				rq.True(lot.RemainingQuantity.LessThanOrEqual(lot.OriginalQuantity))
			}
			// Units are conserved
			rq.True(bought[asset].Equal(matched[asset].Add(res.Ledger.OpenQuantity(asset))),
				"round %d asset %s", round, asset)
		}
		// Every sell realizes a gain or is an orphan
		orphans := 0
		for _, i := range res.Issues {
			rq.NotEqual(InvalidConsumption, i.Kind)
			if i.Kind == OrphanSale {
				orphans++
			}
		}
		rq.Equal(nSells, len(res.Gains)+orphans)
	}
}
