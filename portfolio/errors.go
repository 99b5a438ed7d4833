package portfolio

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidConsumption is a lot consumption that is negative or exceeds
	// the lot's remaining quantity.
	ErrInvalidConsumption = errors.New("invalid lot consumption")

	ErrUnknownLot = errors.New("unknown lot")

	// ErrLotAssetMismatch is a specific-id selection naming a lot of another asset.
	ErrLotAssetMismatch = errors.New("lot is for a different asset")

	// ErrNoLotSelection is a specific-id sale which names no lots.
	ErrNoLotSelection = errors.New("no lots selected for specific identification")
)

type IssueKind int

const (
	// The disposal was aborted. No gain was recorded and no lot was touched.
	InvalidConsumption IssueKind = iota
	// Open lots covered only part of the disposal. The gain uses the partial
	// cost basis.
	IncompleteCoverage
	// A sale with no open lots for its asset. No gain was recorded.
	OrphanSale
)

func (k IssueKind) String() string {
	switch k {
	case InvalidConsumption:
		return "InvalidConsumption"
	case IncompleteCoverage:
		return "IncompleteCoverage"
	case OrphanSale:
		return "OrphanSale"
	default:
		return "unknown"
	}
}

// Issue is a data-quality problem found while replaying transactions.
// Issues never stop a replay.
type Issue struct {
	Kind      IssueKind
	Tx        *Tx
	Requested decimal.Decimal
	Matched   decimal.Decimal
	Err       error // Set for InvalidConsumption
}

func (i Issue) String() string {
	switch i.Kind {
	case IncompleteCoverage:
		return fmt.Sprintf("%s: sale %s of %s %s matched only %s against open lots",
			i.Kind, i.Tx.Ref(), i.Requested, i.Tx.Asset, i.Matched)
	case OrphanSale:
		return fmt.Sprintf("%s: sale %s of %s %s has no open lots",
			i.Kind, i.Tx.Ref(), i.Requested, i.Tx.Asset)
	default:
		return fmt.Sprintf("%s: sale %s of %s %s: %v",
			i.Kind, i.Tx.Ref(), i.Requested, i.Tx.Asset, i.Err)
	}
}
