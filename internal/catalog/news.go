package catalog

// NewsTemplate is a static news event definition. Impact multipliers are
// centered near 1.0: above 1 is bullish for the asset, below 1 bearish.
type NewsTemplate struct {
	Title   string
	Message string
	Tip     string
	Impact  map[AssetID]float64
	Crash   bool
}

// NewsPool is the regular (non-crash) event pool.
var NewsPool = []NewsTemplate{
	{
		Title:   "Fed Cuts Interest Rates",
		Message: "The central bank surprises markets with an aggressive rate cut.",
		Tip:     "Cheap money tends to lift stocks and risk assets.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.06, AssetOil: 1.02, AssetGold: 0.98, AssetCrypto: 1.08,
		},
	},
	{
		Title:   "OPEC Announces Production Cuts",
		Message: "Major producers agree to slash output for the next two quarters.",
		Tip:     "Less supply usually means pricier oil.",
		Impact: map[AssetID]float64{
			AssetStocks: 0.99, AssetOil: 1.12, AssetGold: 1.01, AssetCrypto: 1.0,
		},
	},
	{
		Title:   "Tech Earnings Beat Expectations",
		Message: "Blowout quarterly results from the largest tech firms.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.08, AssetOil: 1.0, AssetGold: 0.99, AssetCrypto: 1.03,
		},
	},
	{
		Title:   "Inflation Comes In Hot",
		Message: "Consumer prices rose faster than forecast last month.",
		Tip:     "Gold has historically been an inflation hedge.",
		Impact: map[AssetID]float64{
			AssetStocks: 0.95, AssetOil: 1.03, AssetGold: 1.06, AssetCrypto: 0.97,
		},
	},
	{
		Title:   "Major Exchange Lists New Crypto ETF",
		Message: "Institutional money gets an easy on-ramp into digital assets.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.01, AssetOil: 1.0, AssetGold: 0.99, AssetCrypto: 1.15,
		},
	},
	{
		Title:   "Geopolitical Tensions Escalate",
		Message: "Conflict threatens a key shipping corridor.",
		Tip:     "Uncertainty favors safe havens.",
		Impact: map[AssetID]float64{
			AssetStocks: 0.96, AssetOil: 1.09, AssetGold: 1.05, AssetCrypto: 0.98,
		},
	},
	{
		Title:   "Regulators Probe Stablecoin Issuer",
		Message: "Subpoenas fly at the largest stablecoin operator.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.0, AssetOil: 1.0, AssetGold: 1.02, AssetCrypto: 0.88,
		},
	},
	{
		Title:   "Strong Jobs Report",
		Message: "Unemployment hits a multi-decade low.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.04, AssetOil: 1.02, AssetGold: 0.98, AssetCrypto: 1.01,
		},
	},
	{
		Title:   "Shale Output Surges",
		Message: "New drilling tech floods the market with cheap crude.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.02, AssetOil: 0.9, AssetGold: 1.0, AssetCrypto: 1.0,
		},
	},
	{
		Title:   "Central Banks Buy Gold",
		Message: "Reserve managers quietly accumulated bullion all quarter.",
		Impact: map[AssetID]float64{
			AssetStocks: 1.0, AssetOil: 1.0, AssetGold: 1.08, AssetCrypto: 0.99,
		},
	},
}

// CrashPool is the disjoint pool of rare crash events. Multipliers are
// uniformly severe: steep drops everywhere except the safe haven.
var CrashPool = []NewsTemplate{
	{
		Title:   "MARKET CRASH: Liquidity Crisis",
		Message: "A major fund collapses and forced selling cascades across markets.",
		Tip:     "In a panic, only gold holds the line.",
		Crash:   true,
		Impact: map[AssetID]float64{
			AssetStocks: 0.72, AssetOil: 0.78, AssetGold: 1.12, AssetCrypto: 0.6,
		},
	},
	{
		Title:   "MARKET CRASH: Banking Contagion",
		Message: "Two regional banks fail overnight; credit markets seize up.",
		Crash:   true,
		Impact: map[AssetID]float64{
			AssetStocks: 0.68, AssetOil: 0.82, AssetGold: 1.15, AssetCrypto: 0.65,
		},
	},
	{
		Title:   "MARKET CRASH: Flash Crash",
		Message: "Algorithmic selling triggers circuit breakers on every venue.",
		Crash:   true,
		Impact: map[AssetID]float64{
			AssetStocks: 0.75, AssetOil: 0.8, AssetGold: 1.08, AssetCrypto: 0.58,
		},
	},
}
