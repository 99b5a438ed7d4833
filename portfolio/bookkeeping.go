package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/log"
	"github.com/tsiemens/capgains/util"
)

type Options struct {
	Method CostBasisMethod
}

func NewOptions(method CostBasisMethod) Options {
	return Options{Method: method}
}

// replayResult is everything accumulated by one pass over the transactions.
type replayResult struct {
	Ledger *Ledger
	Gains  []*CapitalGain
	Issues []Issue
	Fees   decimal.Decimal
	Count  int
	Assets *util.Set[string]
}

// disposeTx matches and applies one SELL against the ledger.
// Returns the gain (nil if none was realized) and any issue found.
func disposeTx(ledger *Ledger, tx *Tx, method CostBasisMethod) (*CapitalGain, *Issue) {
	if len(ledger.OpenLots(tx.Asset, AcquisitionOrder)) == 0 {
		return nil, &Issue{Kind: OrphanSale, Tx: tx, Requested: tx.Quantity, Matched: decimal.Zero}
	}

	match, err := MatchLots(ledger, tx, tx.Quantity, method)
	if err == nil {
		err = ledger.Apply(match.Consumptions)
	}
	if err != nil {
		return nil, &Issue{
			Kind: InvalidConsumption, Tx: tx, Requested: tx.Quantity, Matched: decimal.Zero, Err: err}
	}

	gain := CalcCapitalGain(tx, match)
	if !match.Covers(tx.Quantity) {
		return gain, &Issue{
			Kind: IncompleteCoverage, Tx: tx, Requested: tx.Quantity, Matched: match.MatchedQuantity}
	}
	return gain, nil
}

// replay runs txs, in the given order, through a new ledger.
func replay(txs []*Tx, options Options) *replayResult {
	res := &replayResult{
		Ledger: NewLedger(),
		Fees:   decimal.Zero,
		Assets: util.NewSet[string](),
	}

	for _, tx := range txs {
		res.Count++
		res.Assets.Add(tx.Asset)

		switch tx.Kind {
		case BUY:
			res.Ledger.Open(tx)
			res.Fees = res.Fees.Add(tx.Fee)
		case SELL:
			gain, issue := disposeTx(res.Ledger, tx, options.Method)
			if gain != nil {
				res.Gains = append(res.Gains, gain)
			}
			if issue != nil {
				log.Tracef("lots", "%s", issue)
				res.Issues = append(res.Issues, *issue)
			}
			res.Fees = res.Fees.Add(tx.Fee)
		default:
			// Not a gain event
		}
	}
	return res
}

// BuildTaxSummary replays txs in the order given and summarises every
// realized gain. Callers wanting chronological treatment must sort first.
func BuildTaxSummary(txs []*Tx, options Options) *TaxSummary {
	res := replay(txs, options)
	summary := NewTaxSummary(res.Gains)
	summary.Method = options.Method
	summary.TotalFees = res.Fees
	summary.TransactionCount = res.Count
	summary.Assets = util.SortedStrings(res.Assets)
	summary.Issues = res.Issues
	return summary
}
