package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/date"
)

// A disposal is long-term once held at least this long.
const LongTermThreshold = 365 * date.Day

// CapitalGain is the realized result of one disposal, summed over every lot
// it consumed.
type CapitalGain struct {
	Asset              string
	Quantity           decimal.Decimal // As requested by the sale
	MatchedQuantity    decimal.Decimal // Covered by lots. May be less than Quantity.
	Proceeds           decimal.Decimal
	CostBasis          decimal.Decimal
	Gain               decimal.Decimal // Negative for a loss
	IsLongTerm         bool
	DisposedAt         time.Time
	EarliestAcquiredAt time.Time
	Tx                 *Tx
	Matches            []LotMatch
}

// LotMatch is the audit record of one lot consumed by a disposal.
type LotMatch struct {
	LotId      string
	AcquiredAt time.Time
	Quantity   decimal.Decimal
	CostBasis  decimal.Decimal
}

func (g *CapitalGain) IsLoss() bool {
	return g.Gain.IsNegative()
}

func IsLongTerm(acquiredAt, disposedAt time.Time) bool {
	return disposedAt.Sub(acquiredAt) >= LongTermThreshold
}

// earliestAcquisition of the lots in a match. Zero time for an empty match.
func earliestAcquisition(consumptions []LotConsumption) time.Time {
	var earliest time.Time
	for i, c := range consumptions {
		if i == 0 || c.Lot.AcquiredAt.Before(earliest) {
			earliest = c.Lot.AcquiredAt
		}
	}
	return earliest
}

// CalcCapitalGain computes the gain realized by tx against its matched lots.
func CalcCapitalGain(tx *Tx, match *MatchResult) *CapitalGain {
	earliest := earliestAcquisition(match.Consumptions)
	matches := make([]LotMatch, 0, len(match.Consumptions))
	for _, c := range match.Consumptions {
		matches = append(matches, LotMatch{
			LotId: c.Lot.Id, AcquiredAt: c.Lot.AcquiredAt,
			Quantity: c.Quantity, CostBasis: c.CostBasis,
		})
	}
	return &CapitalGain{
		Asset:              tx.Asset,
		Quantity:           tx.Quantity,
		MatchedQuantity:    match.MatchedQuantity,
		Proceeds:           tx.Value,
		CostBasis:          match.CostBasis,
		Gain:               tx.Value.Sub(match.CostBasis),
		IsLongTerm:         len(match.Consumptions) > 0 && IsLongTerm(earliest, tx.Date),
		DisposedAt:         tx.Date,
		EarliestAcquiredAt: earliest,
		Tx:                 tx,
		Matches:            matches,
	}
}
