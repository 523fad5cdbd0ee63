// Package engine implements the discrete-time stochastic price process:
// per-asset drift from a switching trend regime, uniform noise scaled by
// volatility, rare fat-tail spikes, and delayed news impact.
package engine

import (
	"math"
	"math/rand"

	"github.com/zappabad/bullrun/internal/catalog"
)

// Step tunables. Drift is direction × strength × driftPerStrength; the
// noise term is uniform(-randomRange, randomRange) × effective volatility.
const (
	driftPerStrength        = 0.02
	randomRange             = 1.25
	volatilityJitter        = 0.20
	spikeProbability        = 0.05
	spikeMin                = 2.0
	spikeMax                = 4.0
	trendRerollProbability  = 0.15
	impactFollowProbability = 0.60
)

// Market holds the mutable per-asset price state for one session.
// It is not safe for concurrent use; the session actor owns it.
type Market struct {
	Prices  map[catalog.AssetID]float64
	Trends  map[catalog.AssetID]Trend
	History map[catalog.AssetID][]float64
}

// NewMarket creates a market at catalog initial prices with random trends.
func NewMarket(rng *rand.Rand) *Market {
	m := &Market{
		Prices:  make(map[catalog.AssetID]float64, len(catalog.Assets)),
		Trends:  make(map[catalog.AssetID]Trend, len(catalog.Assets)),
		History: make(map[catalog.AssetID][]float64, len(catalog.Assets)),
	}
	for _, id := range catalog.Assets {
		a := catalog.AssetTable[id]
		m.Prices[id] = a.InitialPrice
		m.Trends[id] = randomTrend(rng)
		m.History[id] = []float64{a.InitialPrice}
	}
	return m
}

// Advance runs one price step for every asset. impacts maps assets to news
// impact multipliers for this tick; pass nil when no impact applies.
func (m *Market) Advance(rng *rand.Rand, impacts map[catalog.AssetID]float64, s Settings) {
	for _, id := range catalog.Assets {
		impact, hasImpact := impacts[id]
		price, trend := step(rng, catalog.AssetTable[id], m.Prices[id], m.Trends[id], impact, hasImpact, s)
		m.Prices[id] = price
		m.Trends[id] = trend
		m.History[id] = append(m.History[id], price)
	}
}

// step advances a single asset and derives its next trend.
func step(rng *rand.Rand, asset catalog.Asset, price float64, trend Trend, impact float64, hasImpact bool, s Settings) (float64, Trend) {
	jitter := 1 + (rng.Float64()*2-1)*volatilityJitter
	effVol := asset.BaseVolatility * s.VolatilityMult * jitter

	drift := float64(trend.Direction) * float64(trend.Strength) * driftPerStrength
	noise := (rng.Float64()*2 - 1) * randomRange * effVol

	spike := 1.0
	if rng.Float64() < spikeProbability {
		spike = spikeMin + rng.Float64()*(spikeMax-spikeMin)
	}

	impactTerm := 0.0
	if hasImpact {
		impactTerm = impact - 1
	}

	total := (drift+noise)*spike + impactTerm
	next := math.Round(price * (1 + total))
	if next < asset.Floor {
		next = asset.Floor
	}

	return next, nextTrend(rng, trend, impactTerm, hasImpact)
}

// nextTrend re-rolls the regime with 15% probability. When a non-zero news
// impact was applied this tick, the new trend follows the impact sign 60%
// of the time with strength scaled by impact magnitude.
func nextTrend(rng *rand.Rand, trend Trend, impactTerm float64, hasImpact bool) Trend {
	if rng.Float64() >= trendRerollProbability {
		return trend
	}
	if hasImpact && impactTerm != 0 && rng.Float64() < impactFollowProbability {
		dir := TrendUp
		if impactTerm < 0 {
			dir = TrendDown
		}
		strength := int(math.Abs(impactTerm) * 20)
		if strength < 1 {
			strength = 1
		}
		if strength > 3 {
			strength = 3
		}
		return Trend{Direction: dir, Strength: strength}
	}
	return randomTrend(rng)
}

func randomTrend(rng *rand.Rand) Trend {
	dir := TrendUp
	if rng.Intn(2) == 0 {
		dir = TrendDown
	}
	return Trend{Direction: dir, Strength: 1 + rng.Intn(3)}
}

// ChangePercent returns the percentage change of an asset's current price
// against its initial catalog price.
func (m *Market) ChangePercent(id catalog.AssetID) float64 {
	initial := catalog.AssetTable[id].InitialPrice
	return (m.Prices[id] - initial) / initial * 100
}

// LastChangePercent returns the percentage move of the most recent step,
// or 0 when fewer than two points exist.
func (m *Market) LastChangePercent(id catalog.AssetID) float64 {
	h := m.History[id]
	if len(h) < 2 {
		return 0
	}
	prev := h[len(h)-2]
	if prev == 0 {
		return 0
	}
	return (h[len(h)-1] - prev) / prev * 100
}
