package portfolio

import "errors"

// Trade rejection errors. All are non-fatal: a rejected operation leaves
// every piece of ledger state untouched.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrNoActivePosition     = errors.New("no active short position")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrShortAlreadyOpen     = errors.New("short position already open for asset")
	ErrUnknownAsset         = errors.New("unknown asset")
)
