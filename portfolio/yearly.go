package portfolio

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tsiemens/capgains/date"
	"github.com/tsiemens/capgains/util"
)

// BuildYearlySummary summarises the gains disposed of within year.
//
// Lots are matched over the full history up to the end of the year, so lots
// bought in earlier years still back sales within it. Fees, counts and assets
// only cover transactions dated within the year.
func BuildYearlySummary(txs []*Tx, year int, options Options) *TaxSummary {
	end := date.YearEnd(year)
	history := make([]*Tx, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.Before(end) {
			history = append(history, tx)
		}
	}

	res := replay(history, options)

	var yearGains []*CapitalGain
	for _, g := range res.Gains {
		if date.InYear(g.DisposedAt, year) {
			yearGains = append(yearGains, g)
		}
	}

	summary := NewTaxSummary(yearGains)
	summary.Year = year
	summary.Method = options.Method

	fees := decimal.Zero
	assets := util.NewSet[string]()
	for _, tx := range history {
		if !date.InYear(tx.Date, year) {
			continue
		}
		summary.TransactionCount++
		assets.Add(tx.Asset)
		if tx.Kind == BUY || tx.Kind == SELL {
			fees = fees.Add(tx.Fee)
		}
	}
	summary.TotalFees = fees
	summary.Assets = util.SortedStrings(assets)

	for _, issue := range res.Issues {
		if date.InYear(issue.Tx.Date, year) {
			summary.Issues = append(summary.Issues, issue)
		}
	}
	return summary
}

// TaxYears lists the years in which txs are dated, ascending.
func TaxYears(txs []*Tx) []int {
	years := make(map[int]bool)
	for _, tx := range txs {
		years[tx.Date.UTC().Year()] = true
	}
	return util.SortedIntKeys(years)
}

// BuildYearlySummaries computes the summary of each year concurrently. Each
// year replays the input on its own ledger; txs is only read.
func BuildYearlySummaries(
	ctx context.Context, txs []*Tx, years []int, options Options) (map[int]*TaxSummary, error) {

	var mu sync.Mutex
	summaries := make(map[int]*TaxSummary, len(years))

	g, ctx := errgroup.WithContext(ctx)
	for _, year := range years {
		year := year
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := BuildYearlySummary(txs, year, options)
			mu.Lock()
			defer mu.Unlock()
			summaries[year] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
