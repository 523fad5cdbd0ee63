package achievements

import (
	"testing"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/portfolio"
)

func basePrices() map[catalog.AssetID]float64 {
	return map[catalog.AssetID]float64{
		catalog.AssetStocks: 240,
		catalog.AssetOil:    65,
		catalog.AssetGold:   1950,
		catalog.AssetCrypto: 30000,
	}
}

func snapshotFor(l *portfolio.Ledger) Snapshot {
	prices := basePrices()
	return Snapshot{
		Ledger: l,
		Prices: prices,
		Value:  l.Value(prices),
	}
}

func TestFirstProfitUnlocks(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(10000)
	l.Holdings[catalog.AssetStocks] = &portfolio.Holding{Quantity: 10, CostBasis: 1000}
	if _, err := l.Sell(catalog.AssetStocks, 240, portfolio.Fraction(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := e.Evaluate(snapshotFor(l))
	if !contains(got, catalog.AchievementFirstProfit) {
		t.Errorf("first profit not unlocked, got %v", got)
	}
}

func TestWhaleUnlocks(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(10000)
	l.Holdings[catalog.AssetOil].Quantity = catalog.WhaleQuantity

	if got := e.Evaluate(snapshotFor(l)); !contains(got, catalog.AchievementWhale) {
		t.Errorf("whale not unlocked, got %v", got)
	}
}

func TestCryptoDegenNeedsMajority(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(1000)
	// One crypto unit at 30000 dwarfs the rest of the book.
	l.Holdings[catalog.AssetCrypto] = &portfolio.Holding{Quantity: 1, CostBasis: 30000}

	if got := e.Evaluate(snapshotFor(l)); !contains(got, catalog.AchievementCryptoDegen) {
		t.Errorf("crypto degen not unlocked, got %v", got)
	}

	e2 := NewEvaluator()
	l2 := portfolio.NewLedger(100000)
	l2.Holdings[catalog.AssetCrypto] = &portfolio.Holding{Quantity: 1, CostBasis: 30000}
	if got := e2.Evaluate(snapshotFor(l2)); contains(got, catalog.AchievementCryptoDegen) {
		t.Error("crypto degen unlocked below 50% of portfolio")
	}
}

func TestDiversifiedRequiresEveryAsset(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(10000)
	for _, id := range catalog.Assets {
		l.Holdings[id].Quantity = 1
	}
	if got := e.Evaluate(snapshotFor(l)); !contains(got, catalog.AchievementDiversified) {
		t.Errorf("diversified not unlocked, got %v", got)
	}

	e2 := NewEvaluator()
	l2 := portfolio.NewLedger(10000)
	l2.Holdings[catalog.AssetStocks].Quantity = 1
	if got := e2.Evaluate(snapshotFor(l2)); contains(got, catalog.AchievementDiversified) {
		t.Error("diversified unlocked with a single asset")
	}
}

func TestShortSellerUnlocksOnProfitableCover(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(10000)
	if _, err := l.Short(catalog.AssetOil, 65, portfolio.Dollars(2000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := l.Cover(catalog.AssetOil, 58.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := snapshotFor(l)
	s.LastTrade = &res
	if got := e.Evaluate(s); !contains(got, catalog.AchievementShortSeller) {
		t.Errorf("short seller not unlocked, got %v", got)
	}
}

func TestCrashSurvivorOnlyAtGameEnd(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(10000)

	s := snapshotFor(l)
	s.CrashesSeen = 1
	s.FinalReturn = 12
	if got := e.Evaluate(s); contains(got, catalog.AchievementCrashSurvivor) {
		t.Error("crash survivor unlocked before game over")
	}

	s.GameOver = true
	if got := e.Evaluate(s); !contains(got, catalog.AchievementCrashSurvivor) {
		t.Errorf("crash survivor not unlocked at game over, got %v", got)
	}
}

func TestUnlocksAreMonotonic(t *testing.T) {
	e := NewEvaluator()
	l := portfolio.NewLedger(10000)
	l.Holdings[catalog.AssetOil].Quantity = catalog.WhaleQuantity

	if got := e.Evaluate(snapshotFor(l)); !contains(got, catalog.AchievementWhale) {
		t.Fatalf("whale not unlocked, got %v", got)
	}

	// Condition no longer holds, flag must stay set and not re-fire.
	l.Holdings[catalog.AssetOil].Quantity = 0
	if got := e.Evaluate(snapshotFor(l)); contains(got, catalog.AchievementWhale) {
		t.Error("whale re-reported after first unlock")
	}
	if !e.Unlocked(catalog.AchievementWhale) {
		t.Error("whale flag reverted")
	}
}

func contains(ids []catalog.AchievementID, want catalog.AchievementID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
