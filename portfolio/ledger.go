package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tsiemens/capgains/log"
	"github.com/tsiemens/capgains/util"
)

// TaxLot is one acquisition not yet fully disposed of.
type TaxLot struct {
	Id                string
	Asset             string
	OriginalQuantity  decimal.Decimal
	CostBasis         decimal.Decimal // Of the whole original quantity
	AcquiredAt        time.Time
	RemainingQuantity decimal.Decimal
	SourceTxId        string
}

func (l *TaxLot) Closed() bool {
	return !l.RemainingQuantity.IsPositive()
}

// ProportionalBasis is the share of the lot's cost basis attributed to
// quantity units of it.
func (l *TaxLot) ProportionalBasis(quantity decimal.Decimal) decimal.Decimal {
	if l.OriginalQuantity.IsZero() {
		return decimal.Zero
	}
	return l.CostBasis.Mul(quantity).Div(l.OriginalQuantity)
}

type LotOrder int

const (
	AcquisitionOrder LotOrder = iota
	OldestFirst
	NewestFirst
)

// Ledger holds the tax lots of every asset for one computation.
// A Ledger must not be shared between computations.
type Ledger struct {
	lotsByAsset map[string][]*TaxLot
	lotsById    map[string]*TaxLot
}

func NewLedger() *Ledger {
	return &Ledger{
		lotsByAsset: make(map[string][]*TaxLot),
		lotsById:    make(map[string]*TaxLot),
	}
}

// Open appends a new lot for an acquisition.
func (l *Ledger) Open(tx *Tx) *TaxLot {
	id := tx.Id
	if id == "" {
		id = GeneratedTxId(tx)
	}
	if _, ok := l.lotsById[id]; ok {
		// Duplicate tx ids in the input. Keep both lots addressable.
		id = fmt.Sprintf("%s/%d", id, tx.ReadIndex)
	}
	lot := &TaxLot{
		Id:                id,
		Asset:             tx.Asset,
		OriginalQuantity:  tx.Quantity,
		CostBasis:         tx.Value,
		AcquiredAt:        tx.Date,
		RemainingQuantity: tx.Quantity,
		SourceTxId:        tx.Id,
	}
	l.lotsByAsset[tx.Asset] = append(l.lotsByAsset[tx.Asset], lot)
	l.lotsById[id] = lot
	log.Tracef("lots", "open %s: %s %s for %s", id, lot.OriginalQuantity, lot.Asset, lot.CostBasis)
	return lot
}

func (l *Ledger) Lot(id string) (*TaxLot, bool) {
	lot, ok := l.lotsById[id]
	return lot, ok
}

// Lots returns every lot ever opened for asset, closed ones included.
func (l *Ledger) Lots(asset string) []*TaxLot {
	lots := l.lotsByAsset[asset]
	out := make([]*TaxLot, len(lots))
	copy(out, lots)
	return out
}

// OpenLots returns the lots for asset with quantity remaining.
func (l *Ledger) OpenLots(asset string, order LotOrder) []*TaxLot {
	var open []*TaxLot
	for _, lot := range l.lotsByAsset[asset] {
		if !lot.Closed() {
			open = append(open, lot)
		}
	}
	switch order {
	case OldestFirst:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].AcquiredAt.Before(open[j].AcquiredAt)
		})
	case NewestFirst:
		sort.SliceStable(open, func(i, j int) bool {
			return open[i].AcquiredAt.After(open[j].AcquiredAt)
		})
	default:
	}
	return open
}

func (l *Ledger) OpenQuantity(asset string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lotsByAsset[asset] {
		total = total.Add(lot.RemainingQuantity)
	}
	return total
}

func (l *Ledger) checkConsumption(lot *TaxLot, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return fmt.Errorf("%w: negative quantity %s from lot %s",
			ErrInvalidConsumption, quantity, lot.Id)
	}
	if quantity.GreaterThan(lot.RemainingQuantity) {
		return fmt.Errorf("%w: %s from lot %s which has %s remaining",
			ErrInvalidConsumption, quantity, lot.Id, lot.RemainingQuantity)
	}
	return nil
}

// Consume takes quantity out of a lot.
func (l *Ledger) Consume(lotId string, quantity decimal.Decimal) error {
	lot, ok := l.lotsById[lotId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLot, lotId)
	}
	if err := l.checkConsumption(lot, quantity); err != nil {
		return err
	}
	lot.RemainingQuantity = lot.RemainingQuantity.Sub(quantity)
	util.Assertf(!lot.RemainingQuantity.IsNegative(),
		"lot %s remaining quantity went negative (%s)", lot.Id, lot.RemainingQuantity)
	return nil
}

// Apply consumes every lot of a match, or none of them if any consumption
// is invalid.
func (l *Ledger) Apply(consumptions []LotConsumption) error {
	pending := make(map[string]decimal.Decimal)
	for _, c := range consumptions {
		lot, ok := l.lotsById[c.Lot.Id]
		if !ok || lot != c.Lot {
			return fmt.Errorf("%w: %s", ErrUnknownLot, c.Lot.Id)
		}
		total := pending[lot.Id].Add(c.Quantity)
		if err := l.checkConsumption(lot, c.Quantity); err != nil {
			return err
		}
		if err := l.checkConsumption(lot, total); err != nil {
			return err
		}
		pending[lot.Id] = total
	}
	for _, c := range consumptions {
		err := l.Consume(c.Lot.Id, c.Quantity)
		util.Assertf(err == nil, "Apply: validated consumption failed: %v", err)
	}
	return nil
}
