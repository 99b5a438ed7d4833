package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/util"
)

type CumulativeCapitalGains struct {
	CapitalGainsTotal      decimal.Decimal
	CapitalGainsYearTotals map[int]decimal.Decimal
}

func (g *CumulativeCapitalGains) CapitalGainsYearTotalsKeysSorted() []int {
	return util.SortedIntKeys(g.CapitalGainsYearTotals)
}

// CalcCumulativeCapitalGains sums net gains overall and per disposal year.
func CalcCumulativeCapitalGains(gains []*CapitalGain) *CumulativeCapitalGains {
	capGainsTotal := decimal.Zero
	capGainsYearTotals := util.NewDefaultMap(func(int) decimal.Decimal { return decimal.Zero })

	for _, g := range gains {
		capGainsTotal = capGainsTotal.Add(g.Gain)
		year := g.DisposedAt.UTC().Year()
		capGainsYearTotals.Set(year, capGainsYearTotals.Get(year).Add(g.Gain))
	}

	return &CumulativeCapitalGains{capGainsTotal, capGainsYearTotals.EjectMap()}
}

// CalcCumulativeCapitalGainsByAsset splits the totals per asset.
func CalcCumulativeCapitalGainsByAsset(gains []*CapitalGain) map[string]*CumulativeCapitalGains {
	byAsset := make(map[string][]*CapitalGain)
	for _, g := range gains {
		byAsset[g.Asset] = append(byAsset[g.Asset], g)
	}
	out := make(map[string]*CumulativeCapitalGains, len(byAsset))
	for asset, assetGains := range byAsset {
		out[asset] = CalcCumulativeCapitalGains(assetGains)
	}
	return out
}
