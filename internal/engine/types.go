package engine

// TrendDirection is the sign of an asset's short-lived drift.
type TrendDirection int8

const (
	TrendUp   TrendDirection = 1
	TrendDown TrendDirection = -1
)

func (d TrendDirection) String() string {
	switch d {
	case TrendUp:
		return "UP"
	case TrendDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// Trend is a directional bias applied as drift to an asset's price.
// Strength is always in [1,3].
type Trend struct {
	Direction TrendDirection
	Strength  int
}

// Settings are the difficulty-dependent knobs of the price step.
type Settings struct {
	// VolatilityMult scales every asset's base volatility.
	VolatilityMult float64
}
