package portfolio

import "math"

// AmountKind tags how an AmountSpec's value is interpreted.
type AmountKind uint8

const (
	// AmountDollars is an absolute dollar amount.
	AmountDollars AmountKind = iota
	// AmountFraction is a share of the relevant base (cash for buys and
	// shorts, the held quantity for sells, the open position for covers).
	// Must be in (0, 1].
	AmountFraction
	// AmountUnits is an explicit unit count.
	AmountUnits
)

func (k AmountKind) String() string {
	switch k {
	case AmountDollars:
		return "DOLLARS"
	case AmountFraction:
		return "FRACTION"
	case AmountUnits:
		return "UNITS"
	default:
		return "UNKNOWN"
	}
}

// AmountSpec is a tagged trade amount. It replaces the ambiguous "number
// that means dollars, a fraction, or units depending on call site" shape
// with an explicit variant resolved by the ledger.
type AmountSpec struct {
	Kind  AmountKind
	Value float64
}

// Dollars builds a dollar-amount spec.
func Dollars(v float64) AmountSpec { return AmountSpec{Kind: AmountDollars, Value: v} }

// Fraction builds a fractional spec in (0, 1].
func Fraction(f float64) AmountSpec { return AmountSpec{Kind: AmountFraction, Value: f} }

// Units builds an explicit unit-count spec.
func Units(n float64) AmountSpec { return AmountSpec{Kind: AmountUnits, Value: n} }

// validate rejects zero, negative, and non-finite values before any state
// is touched, and fractions above 1.
func (a AmountSpec) validate() error {
	if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || a.Value <= 0 {
		return ErrInvalidAmount
	}
	if a.Kind == AmountFraction && a.Value > 1 {
		return ErrInvalidAmount
	}
	if a.Kind > AmountUnits {
		return ErrInvalidAmount
	}
	return nil
}
