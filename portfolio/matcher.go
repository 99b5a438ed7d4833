package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/log"
)

// CostBasisMethod selects which lots a disposal consumes.
type CostBasisMethod int

const (
	// FIFO (First-In, First-Out) disposes of the oldest lots first.
	FIFO CostBasisMethod = iota
	// LIFO (Last-In, First-Out) disposes of the newest lots first.
	LIFO
	// SpecificID disposes of the lots named by the sale, in the given order.
	SpecificID
)

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case SpecificID:
		return "specific"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "specific", "specific-id", "specificid":
		return SpecificID, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// LotConsumption is quantity taken from one lot by a disposal.
type LotConsumption struct {
	Lot       *TaxLot
	Quantity  decimal.Decimal
	CostBasis decimal.Decimal
}

type MatchResult struct {
	CostBasis       decimal.Decimal
	MatchedQuantity decimal.Decimal
	Consumptions    []LotConsumption
}

// Covers reports whether the match satisfied the whole quantity.
func (r *MatchResult) Covers(quantity decimal.Decimal) bool {
	return r.MatchedQuantity.GreaterThanOrEqual(quantity)
}

// candidateLots lists the lots a disposal may draw from, in visiting order.
func candidateLots(ledger *Ledger, tx *Tx, method CostBasisMethod) ([]*TaxLot, error) {
	switch method {
	case FIFO:
		return ledger.OpenLots(tx.Asset, OldestFirst), nil
	case LIFO:
		return ledger.OpenLots(tx.Asset, NewestFirst), nil
	case SpecificID:
		if len(tx.LotIds) == 0 {
			return nil, ErrNoLotSelection
		}
		lots := make([]*TaxLot, 0, len(tx.LotIds))
		for _, id := range tx.LotIds {
			lot, ok := ledger.Lot(id)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownLot, id)
			}
			if lot.Asset != tx.Asset {
				return nil, fmt.Errorf("%w: lot %s holds %s, not %s",
					ErrLotAssetMismatch, id, lot.Asset, tx.Asset)
			}
			if lot.Closed() {
				return nil, fmt.Errorf("%w: lot %s is closed", ErrInvalidConsumption, id)
			}
			lots = append(lots, lot)
		}
		return lots, nil
	default:
		return nil, fmt.Errorf("unsupported cost basis method %d", method)
	}
}

// MatchLots chooses the lots that dispose of quantity units of tx.Asset.
// The ledger is not modified; apply the result with Ledger.Apply.
//
// If the lots run out first, the partial match is returned without error.
func MatchLots(ledger *Ledger, tx *Tx, quantity decimal.Decimal, method CostBasisMethod) (*MatchResult, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("%w: negative disposal quantity %s", ErrInvalidConsumption, quantity)
	}
	lots, err := candidateLots(ledger, tx, method)
	if err != nil {
		return nil, err
	}

	res := &MatchResult{CostBasis: decimal.Zero, MatchedQuantity: decimal.Zero}
	// Specific-id selections may name a lot more than once.
	planned := make(map[string]decimal.Decimal)
	remainingToMatch := quantity

	for _, lot := range lots {
		if !remainingToMatch.IsPositive() {
			break
		}
		available := lot.RemainingQuantity.Sub(planned[lot.Id])
		if !available.IsPositive() {
			continue
		}
		used := decimal.Min(available, remainingToMatch)
		basis := lot.ProportionalBasis(used)

		res.Consumptions = append(res.Consumptions, LotConsumption{Lot: lot, Quantity: used, CostBasis: basis})
		res.CostBasis = res.CostBasis.Add(basis)
		res.MatchedQuantity = res.MatchedQuantity.Add(used)
		planned[lot.Id] = planned[lot.Id].Add(used)
		remainingToMatch = remainingToMatch.Sub(used)

		log.Tracef("match", "%s %s: lot %s (%s) used %s, basis %s",
			method, tx.Ref(), lot.Id, lot.AcquiredAt.Format("2006-01-02"), used, basis)
	}
	return res, nil
}
