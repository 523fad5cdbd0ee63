package portfolio

import (
	"github.com/zappabad/bullrun/internal/catalog"
)

// Ledger owns the player's cash, holdings, and short positions.
// It is not safe for concurrent use; the session actor owns it.
type Ledger struct {
	Cash         float64
	StartingCash float64
	Holdings     map[catalog.AssetID]*Holding
	Shorts       map[catalog.AssetID]*ShortPosition
	Stats        Stats
}

// NewLedger creates a ledger with the given starting cash and empty
// positions for every catalog asset.
func NewLedger(startingCash float64) *Ledger {
	l := &Ledger{
		Cash:         startingCash,
		StartingCash: startingCash,
		Holdings:     make(map[catalog.AssetID]*Holding, len(catalog.Assets)),
		Shorts:       make(map[catalog.AssetID]*ShortPosition, len(catalog.Assets)),
	}
	for _, id := range catalog.Assets {
		l.Holdings[id] = &Holding{}
		l.Shorts[id] = &ShortPosition{}
	}
	return l
}

// Buy spends cash on units at the given price. The amount resolves to a
// dollar cost: Dollars directly, Fraction as a share of available cash,
// Units as units × price.
func (l *Ledger) Buy(asset catalog.AssetID, price float64, amount AmountSpec) (TradeResult, error) {
	h, ok := l.Holdings[asset]
	if !ok {
		return TradeResult{}, ErrUnknownAsset
	}
	if err := amount.validate(); err != nil {
		return TradeResult{}, err
	}

	var cost float64
	switch amount.Kind {
	case AmountDollars:
		cost = amount.Value
	case AmountFraction:
		cost = l.Cash * amount.Value
	case AmountUnits:
		cost = amount.Value * price
	}
	if cost <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}
	if cost > l.Cash {
		return TradeResult{}, ErrInsufficientFunds
	}

	units := cost / price
	l.Cash -= cost
	h.Quantity += units
	h.CostBasis += cost
	l.recordTrade(0, false)

	return TradeResult{
		Asset:  asset,
		Action: ActionBuy,
		Units:  units,
		Price:  price,
		Cost:   cost,
	}, nil
}

// Sell disposes of units at the given price. Fraction resolves against the
// held quantity; Dollars resolves to value ÷ price. Cost basis is reduced
// proportionally and the difference is realized profit.
func (l *Ledger) Sell(asset catalog.AssetID, price float64, amount AmountSpec) (TradeResult, error) {
	h, ok := l.Holdings[asset]
	if !ok {
		return TradeResult{}, ErrUnknownAsset
	}
	if err := amount.validate(); err != nil {
		return TradeResult{}, err
	}
	if h.Quantity <= 0 {
		return TradeResult{}, ErrInsufficientHoldings
	}

	var units float64
	switch amount.Kind {
	case AmountDollars:
		units = amount.Value / price
	case AmountFraction:
		units = h.Quantity * amount.Value
	case AmountUnits:
		units = amount.Value
	}
	if units > h.Quantity {
		return TradeResult{}, ErrInsufficientHoldings
	}

	proceeds := units * price
	basisReduction := h.CostBasis * (units / h.Quantity)
	profit := proceeds - basisReduction

	l.Cash += proceeds
	h.Quantity -= units
	h.CostBasis -= basisReduction
	l.recordTrade(profit, true)

	return TradeResult{
		Asset:    asset,
		Action:   ActionSell,
		Units:    units,
		Price:    price,
		Proceeds: proceeds,
		Profit:   profit,
		Realized: true,
	}, nil
}

// Short opens a leveraged short. The notional resolves from Dollars or a
// cash Fraction (of maximum shortable notional), is capped at 2× cash, and
// requires 50% margin posted from cash. Only one short per asset may be
// active.
func (l *Ledger) Short(asset catalog.AssetID, price float64, amount AmountSpec) (TradeResult, error) {
	sp, ok := l.Shorts[asset]
	if !ok {
		return TradeResult{}, ErrUnknownAsset
	}
	if err := amount.validate(); err != nil {
		return TradeResult{}, err
	}
	if sp.Active {
		return TradeResult{}, ErrShortAlreadyOpen
	}

	maxNotional := l.Cash / MarginRequirement
	var notional float64
	switch amount.Kind {
	case AmountDollars:
		notional = amount.Value
	case AmountFraction:
		notional = maxNotional * amount.Value
	case AmountUnits:
		notional = amount.Value * price
	}
	if notional <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}
	if notional > maxNotional {
		return TradeResult{}, ErrInsufficientFunds
	}

	margin := notional * MarginRequirement
	l.Cash -= margin
	sp.EntryPrice = price
	sp.Value = notional
	sp.Active = true
	l.recordTrade(0, false)

	return TradeResult{
		Asset:  asset,
		Action: ActionShort,
		Units:  notional / price,
		Price:  price,
		Cost:   margin,
	}, nil
}

// Cover closes fraction ∈ (0,1] of the active short at the given price.
// P/L = closed notional × ((entry − current) / entry) × 2. The posted
// margin for the closed slice returns to cash along with the P/L. A full
// cover resets the position.
func (l *Ledger) Cover(asset catalog.AssetID, price float64, fraction float64) (TradeResult, error) {
	sp, ok := l.Shorts[asset]
	if !ok {
		return TradeResult{}, ErrUnknownAsset
	}
	if err := (AmountSpec{Kind: AmountFraction, Value: fraction}).validate(); err != nil {
		return TradeResult{}, err
	}
	if !sp.Active {
		return TradeResult{}, ErrNoActivePosition
	}

	closed := sp.Value * fraction
	profit := closed * ((sp.EntryPrice - price) / sp.EntryPrice) * ShortLeverage
	marginReturn := closed * MarginRequirement

	l.Cash += marginReturn + profit
	entry := sp.EntryPrice
	if fraction == 1 {
		sp.EntryPrice = 0
		sp.Value = 0
		sp.Active = false
	} else {
		sp.Value -= closed
	}
	l.recordTrade(profit, true)

	return TradeResult{
		Asset:    asset,
		Action:   ActionCover,
		Units:    closed / entry,
		Price:    price,
		Proceeds: marginReturn + profit,
		Profit:   profit,
		Realized: true,
	}, nil
}

// Value computes total portfolio worth: cash, holdings marked to market,
// and each active short's posted notional plus unrealized leveraged P/L.
func (l *Ledger) Value(prices map[catalog.AssetID]float64) float64 {
	v := l.Cash
	for _, id := range catalog.Assets {
		price := prices[id]
		if h := l.Holdings[id]; h != nil {
			v += h.Quantity * price
		}
		if sp := l.Shorts[id]; sp != nil && sp.Active && sp.EntryPrice > 0 {
			v += sp.Value + sp.Value*((sp.EntryPrice-price)/sp.EntryPrice)*ShortLeverage
		}
	}
	return v
}

// ResetRoundTrades clears the per-round trade counter at round boundaries.
func (l *Ledger) ResetRoundTrades() {
	l.Stats.TradesThisRound = 0
}

func (l *Ledger) recordTrade(profit float64, realized bool) {
	l.Stats.Trades++
	l.Stats.TradesThisRound++
	if !realized {
		return
	}
	if profit > 0 {
		l.Stats.ProfitableTrades++
		if profit > l.Stats.LargestGain {
			l.Stats.LargestGain = profit
		}
	}
	if profit < 0 && profit < l.Stats.LargestLoss {
		l.Stats.LargestLoss = profit
	}
}
