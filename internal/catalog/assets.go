// Package catalog holds the static market data tables: tradeable assets,
// news pools, opportunity templates, achievement definitions, and
// difficulty presets. Everything here is immutable after init.
package catalog

// AssetID identifies one of the fixed tradeable assets.
type AssetID string

const (
	AssetStocks AssetID = "stocks"
	AssetOil    AssetID = "oil"
	AssetGold   AssetID = "gold"
	AssetCrypto AssetID = "crypto"
)

// Assets lists every tradeable asset in display order.
var Assets = []AssetID{AssetStocks, AssetOil, AssetGold, AssetCrypto}

// Valid reports whether the ID names a catalog asset.
func (a AssetID) Valid() bool {
	_, ok := AssetTable[a]
	return ok
}

func (a AssetID) String() string { return string(a) }

// Asset describes one tradeable instrument.
type Asset struct {
	ID             AssetID
	Name           string
	InitialPrice   float64
	Floor          float64 // prices never drop below this
	BaseVolatility float64
}

// AssetTable is the master asset table.
var AssetTable = map[AssetID]Asset{
	AssetStocks: {
		ID:             AssetStocks,
		Name:           "Stocks",
		InitialPrice:   240,
		Floor:          50,
		BaseVolatility: 0.05,
	},
	AssetOil: {
		ID:             AssetOil,
		Name:           "Oil",
		InitialPrice:   65,
		Floor:          10,
		BaseVolatility: 0.08,
	},
	AssetGold: {
		ID:             AssetGold,
		Name:           "Gold",
		InitialPrice:   1950,
		Floor:          500,
		BaseVolatility: 0.03,
	},
	AssetCrypto: {
		ID:             AssetCrypto,
		Name:           "Crypto",
		InitialPrice:   30000,
		Floor:          1000,
		BaseVolatility: 0.12,
	},
}
