package portfolio

import (
	"github.com/shopspring/decimal"
)

// TaxSummary aggregates the capital gains of one scope (all time, or a
// single tax year).
type TaxSummary struct {
	Year   int // 0 for all time
	Method CostBasisMethod

	TotalGains      decimal.Decimal
	TotalLosses     decimal.Decimal // Absolute value
	NetGain         decimal.Decimal
	ShortTermGains  decimal.Decimal
	ShortTermLosses decimal.Decimal
	LongTermGains   decimal.Decimal
	LongTermLosses  decimal.Decimal

	TotalFees        decimal.Decimal
	TransactionCount int
	Assets           []string

	Gains  []*CapitalGain
	Issues []Issue
}

// NewTaxSummary derives every total from gains. Fees, counts and assets are
// left for the caller, since they depend on the transactions in scope.
func NewTaxSummary(gains []*CapitalGain) *TaxSummary {
	s := &TaxSummary{
		TotalGains: decimal.Zero, TotalLosses: decimal.Zero, NetGain: decimal.Zero,
		ShortTermGains: decimal.Zero, ShortTermLosses: decimal.Zero,
		LongTermGains: decimal.Zero, LongTermLosses: decimal.Zero,
		TotalFees: decimal.Zero,
		Assets:    []string{},
		Gains:     gains,
	}

	for _, g := range gains {
		switch {
		case g.Gain.IsPositive() && g.IsLongTerm:
			s.LongTermGains = s.LongTermGains.Add(g.Gain)
		case g.Gain.IsPositive():
			s.ShortTermGains = s.ShortTermGains.Add(g.Gain)
		case g.Gain.IsNegative() && g.IsLongTerm:
			s.LongTermLosses = s.LongTermLosses.Add(g.Gain.Abs())
		case g.Gain.IsNegative():
			s.ShortTermLosses = s.ShortTermLosses.Add(g.Gain.Abs())
		}
	}
	s.TotalGains = s.ShortTermGains.Add(s.LongTermGains)
	s.TotalLosses = s.ShortTermLosses.Add(s.LongTermLosses)
	s.NetGain = s.TotalGains.Sub(s.TotalLosses)
	return s
}

func (s *TaxSummary) IssuesOfKind(kind IssueKind) []Issue {
	var issues []Issue
	for _, i := range s.Issues {
		if i.Kind == kind {
			issues = append(issues, i)
		}
	}
	return issues
}
