package portfolio

import (
	"math"
	"testing"

	"github.com/zappabad/bullrun/internal/catalog"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestBuyDollars(t *testing.T) {
	l := NewLedger(10000)

	res, err := l.Buy(catalog.AssetStocks, 240, Dollars(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(l.Cash, 9000) {
		t.Errorf("cash after buy: got %v, want 9000", l.Cash)
	}
	if !almostEqual(res.Units, 1000.0/240) {
		t.Errorf("units: got %v, want %v", res.Units, 1000.0/240)
	}
	h := l.Holdings[catalog.AssetStocks]
	if !almostEqual(h.CostBasis, 1000) {
		t.Errorf("cost basis: got %v, want 1000", h.CostBasis)
	}
	if !almostEqual(h.Quantity, 4.1666666667) {
		t.Errorf("quantity: got %v, want ~4.1667", h.Quantity)
	}
}

func TestBuyFractionOfCash(t *testing.T) {
	l := NewLedger(10000)

	if _, err := l.Buy(catalog.AssetOil, 65, Fraction(0.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(l.Cash, 5000) {
		t.Errorf("cash: got %v, want 5000", l.Cash)
	}
	if !almostEqual(l.Holdings[catalog.AssetOil].CostBasis, 5000) {
		t.Errorf("cost basis: got %v, want 5000", l.Holdings[catalog.AssetOil].CostBasis)
	}
}

func TestBuyRejections(t *testing.T) {
	tests := []struct {
		name   string
		asset  catalog.AssetID
		amount AmountSpec
		want   error
	}{
		{"over cash", catalog.AssetStocks, Dollars(10001), ErrInsufficientFunds},
		{"zero", catalog.AssetStocks, Dollars(0), ErrInvalidAmount},
		{"negative", catalog.AssetStocks, Dollars(-5), ErrInvalidAmount},
		{"nan", catalog.AssetStocks, Dollars(math.NaN()), ErrInvalidAmount},
		{"inf", catalog.AssetStocks, Dollars(math.Inf(1)), ErrInvalidAmount},
		{"fraction above one", catalog.AssetStocks, Fraction(1.5), ErrInvalidAmount},
		{"unknown asset", catalog.AssetID("beanie_babies"), Dollars(100), ErrUnknownAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(10000)
			_, err := l.Buy(tt.asset, 240, tt.amount)
			if err != tt.want {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if l.Cash != 10000 {
				t.Errorf("rejected buy mutated cash: %v", l.Cash)
			}
			if l.Stats.Trades != 0 {
				t.Errorf("rejected buy counted as trade")
			}
		})
	}
}

func TestSellHalfHolding(t *testing.T) {
	l := NewLedger(10000)
	// Hold 10 units with a $2,000 basis, then sell half at $250.
	l.Holdings[catalog.AssetStocks] = &Holding{Quantity: 10, CostBasis: 2000}

	res, err := l.Sell(catalog.AssetStocks, 250, Fraction(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(res.Units, 5) {
		t.Errorf("units sold: got %v, want 5", res.Units)
	}
	if !almostEqual(res.Proceeds, 1250) {
		t.Errorf("proceeds: got %v, want 1250", res.Proceeds)
	}
	if !almostEqual(res.Profit, 250) {
		t.Errorf("profit: got %v, want 250", res.Profit)
	}
	h := l.Holdings[catalog.AssetStocks]
	if !almostEqual(h.Quantity, 5) || !almostEqual(h.CostBasis, 1000) {
		t.Errorf("holding after sell: qty %v basis %v, want 5 and 1000", h.Quantity, h.CostBasis)
	}
	if !almostEqual(l.Cash, 11250) {
		t.Errorf("cash: got %v, want 11250", l.Cash)
	}
	if l.Stats.ProfitableTrades != 1 {
		t.Errorf("profitable trades: got %d, want 1", l.Stats.ProfitableTrades)
	}
	if !almostEqual(l.Stats.LargestGain, 250) {
		t.Errorf("largest gain: got %v, want 250", l.Stats.LargestGain)
	}
}

func TestSellMoreThanHeld(t *testing.T) {
	l := NewLedger(10000)
	l.Holdings[catalog.AssetOil] = &Holding{Quantity: 3, CostBasis: 200}

	_, err := l.Sell(catalog.AssetOil, 70, Units(4))
	if err != ErrInsufficientHoldings {
		t.Fatalf("got %v, want ErrInsufficientHoldings", err)
	}
	h := l.Holdings[catalog.AssetOil]
	if h.Quantity != 3 || h.CostBasis != 200 {
		t.Error("rejected sell mutated the holding")
	}
}

func TestSellNothingHeld(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Sell(catalog.AssetGold, 2000, Fraction(1)); err != ErrInsufficientHoldings {
		t.Fatalf("got %v, want ErrInsufficientHoldings", err)
	}
}

func TestShortAndCoverProfit(t *testing.T) {
	l := NewLedger(10000)

	// $2,000 notional at $65: $1,000 margin deducted.
	res, err := l.Short(catalog.AssetOil, 65, Dollars(2000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.Cost, 1000) {
		t.Errorf("margin: got %v, want 1000", res.Cost)
	}
	if !almostEqual(l.Cash, 9000) {
		t.Errorf("cash after short: got %v, want 9000", l.Cash)
	}

	// Price falls 10%; covering returns margin plus 2x-leveraged P/L.
	cover, err := l.Cover(catalog.AssetOil, 58.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(cover.Profit, 400) {
		t.Errorf("cover P/L: got %v, want 400", cover.Profit)
	}
	if !almostEqual(l.Cash, 10400) {
		t.Errorf("cash after cover: got %v, want 10400", l.Cash)
	}
	sp := l.Shorts[catalog.AssetOil]
	if sp.Active || sp.Value != 0 || sp.EntryPrice != 0 {
		t.Errorf("short not reset after full cover: %+v", sp)
	}
}

func TestCoverLossSignMatchesPriceDirection(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Short(catalog.AssetCrypto, 30000, Dollars(3000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Price rose: the short loses at 2x.
	res, err := l.Cover(catalog.AssetCrypto, 33000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Profit >= 0 {
		t.Errorf("cover against rising price should lose, got %v", res.Profit)
	}
	want := 3000 * ((30000.0 - 33000.0) / 30000.0) * 2
	if !almostEqual(res.Profit, want) {
		t.Errorf("loss: got %v, want %v", res.Profit, want)
	}
	if !almostEqual(l.Stats.LargestLoss, want) {
		t.Errorf("largest loss: got %v, want %v", l.Stats.LargestLoss, want)
	}
}

func TestPartialCover(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Short(catalog.AssetOil, 65, Dollars(2000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := l.Cover(catalog.AssetOil, 58.5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.Profit, 200) {
		t.Errorf("half cover P/L: got %v, want 200", res.Profit)
	}
	sp := l.Shorts[catalog.AssetOil]
	if !sp.Active || !almostEqual(sp.Value, 1000) || !almostEqual(sp.EntryPrice, 65) {
		t.Errorf("short after half cover: %+v", sp)
	}
}

func TestShortRejections(t *testing.T) {
	l := NewLedger(1000)

	// Notional above 2x cash violates the margin requirement.
	if _, err := l.Short(catalog.AssetOil, 65, Dollars(2001)); err != ErrInsufficientFunds {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	if _, err := l.Short(catalog.AssetOil, 65, Dollars(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A second short on the same asset while one is active.
	if _, err := l.Short(catalog.AssetOil, 65, Dollars(100)); err != ErrShortAlreadyOpen {
		t.Fatalf("got %v, want ErrShortAlreadyOpen", err)
	}
}

func TestCoverWithoutPosition(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Cover(catalog.AssetGold, 2000, 1); err != ErrNoActivePosition {
		t.Fatalf("got %v, want ErrNoActivePosition", err)
	}
	if l.Cash != 10000 {
		t.Error("rejected cover mutated cash")
	}
}

func TestValueFoldsUnrealizedShortPL(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Short(catalog.AssetOil, 65, Dollars(2000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prices := map[catalog.AssetID]float64{
		catalog.AssetStocks: 240,
		catalog.AssetOil:    58.5,
		catalog.AssetGold:   1950,
		catalog.AssetCrypto: 30000,
	}
	// cash 9000 + notional 2000 + unrealized 400
	if got := l.Value(prices); !almostEqual(got, 11400) {
		t.Errorf("value: got %v, want 11400", got)
	}
}

func TestBuyThenSellRoundTripConservesCash(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Buy(catalog.AssetGold, 1950, Dollars(3000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Sell(catalog.AssetGold, 1950, Fraction(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(l.Cash, 10000) {
		t.Errorf("flat round trip should conserve cash, got %v", l.Cash)
	}
	h := l.Holdings[catalog.AssetGold]
	if !almostEqual(h.Quantity, 0) || !almostEqual(h.CostBasis, 0) {
		t.Errorf("holding after full sell: %+v", h)
	}
}

func TestRoundTradeCounterReset(t *testing.T) {
	l := NewLedger(10000)
	if _, err := l.Buy(catalog.AssetStocks, 240, Dollars(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Stats.TradesThisRound != 1 || l.Stats.Trades != 1 {
		t.Fatalf("counters: %+v", l.Stats)
	}
	l.ResetRoundTrades()
	if l.Stats.TradesThisRound != 0 {
		t.Error("per-round counter not reset")
	}
	if l.Stats.Trades != 1 {
		t.Error("total counter must survive round reset")
	}
}
