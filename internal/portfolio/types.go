// Package portfolio implements the transactional trade ledger: cash,
// per-asset holdings with cost basis, and leveraged short positions.
// Every operation is atomic: it either fully applies or fails with no
// partial mutation.
package portfolio

import "github.com/zappabad/bullrun/internal/catalog"

// TradeAction is one of the four ledger operations.
type TradeAction uint8

const (
	ActionBuy TradeAction = iota
	ActionSell
	ActionShort
	ActionCover
)

func (a TradeAction) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	case ActionShort:
		return "SHORT"
	case ActionCover:
		return "COVER"
	default:
		return "UNKNOWN"
	}
}

// ParseAction maps a wire string to a TradeAction.
func ParseAction(s string) (TradeAction, bool) {
	switch s {
	case "buy":
		return ActionBuy, true
	case "sell":
		return ActionSell, true
	case "short":
		return ActionShort, true
	case "cover":
		return ActionCover, true
	default:
		return 0, false
	}
}

// Holding is the owned quantity of one asset plus the cumulative dollars
// paid for it. CostBasis scales down proportionally on partial sells.
type Holding struct {
	Quantity  float64
	CostBasis float64
}

// ShortPosition is a leveraged bet that an asset's price will fall.
// At most one is active per asset.
type ShortPosition struct {
	EntryPrice float64
	Value      float64 // notional
	Active     bool
}

// Short economics: margin posted is MarginRequirement × notional, and
// P/L settles at ShortLeverage × the price move.
const (
	MarginRequirement = 0.5
	ShortLeverage     = 2.0
)

// Stats accumulates per-session trade statistics.
type Stats struct {
	Trades              int
	TradesThisRound     int
	ProfitableTrades    int
	LargestGain         float64
	LargestLoss         float64 // most negative realized P/L
	CrashRoundsSurvived int
}

// TradeResult reports an executed operation.
type TradeResult struct {
	Asset    catalog.AssetID
	Action   TradeAction
	Units    float64
	Price    float64
	Cost     float64 // cash out (buy cost, short margin)
	Proceeds float64 // cash in (sell proceeds, cover margin return + P/L)
	Profit   float64 // realized P/L; meaningful when Realized
	Realized bool    // true for sell and cover
}
