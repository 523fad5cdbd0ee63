package catalog

// OpportunityType identifies one of the special timed offer kinds.
type OpportunityType string

const (
	OpportunityDouble     OpportunityType = "double"
	OpportunityInsider    OpportunityType = "insider"
	OpportunityHedge      OpportunityType = "hedge"
	OpportunityLeverage   OpportunityType = "leverage"
	OpportunityShort      OpportunityType = "short"
	OpportunityArbitrage  OpportunityType = "arbitrage"
	OpportunityMomentum   OpportunityType = "momentum"
	OpportunityContrarian OpportunityType = "contrarian"
)

// RiskTier grades an opportunity's risk/reward profile.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// AssetSelection controls how an opportunity template picks its target asset.
type AssetSelection uint8

const (
	// SelectFixed always targets DefaultAsset.
	SelectFixed AssetSelection = iota
	// SelectRandom targets a uniformly random asset.
	SelectRandom
	// SelectTrendingDown targets an asset whose trend points down.
	SelectTrendingDown
	// SelectTrendingUp targets an asset trending up with strength above 1.
	SelectTrendingUp
	// SelectOverpriced targets an asset priced at least 30% over its
	// initial catalog price.
	SelectOverpriced
)

// OpportunityTemplate is a static definition of a timed offer.
type OpportunityTemplate struct {
	Type         OpportunityType
	Title        string
	Description  string
	Action       string
	DefaultAsset AssetID
	Selection    AssetSelection
	Risk         RiskTier
}

// OpportunityTemplates lists every offer the generator can propose.
var OpportunityTemplates = []OpportunityTemplate{
	{
		Type:         OpportunityDouble,
		Title:        "Double or Nothing",
		Description:  "A whale wants the other side of your crypto bet. Winner takes all.",
		Action:       "Go all in",
		DefaultAsset: AssetCrypto,
		Selection:    SelectFixed,
		Risk:         RiskHigh,
	},
	{
		Type:         OpportunityInsider,
		Title:        "Insider Tip",
		Description:  "A contact whispers that big news is about to break.",
		Action:       "Buy before it pops",
		DefaultAsset: AssetStocks,
		Selection:    SelectRandom,
		Risk:         RiskMedium,
	},
	{
		Type:         OpportunityHedge,
		Title:        "Hedge Your Book",
		Description:  "A dealer offers cheap downside protection via a short.",
		Action:       "Open the hedge",
		DefaultAsset: AssetGold,
		Selection:    SelectFixed,
		Risk:         RiskLow,
	},
	{
		Type:         OpportunityLeverage,
		Title:        "Leverage Line",
		Description:  "Your broker extends a margin line for one aggressive buy.",
		Action:       "Take the leverage",
		DefaultAsset: AssetStocks,
		Selection:    SelectRandom,
		Risk:         RiskHigh,
	},
	{
		Type:         OpportunityShort,
		Title:        "Overheated Market",
		Description:  "This asset is trading far above fair value. Time to fade it.",
		Action:       "Short it",
		DefaultAsset: AssetCrypto,
		Selection:    SelectOverpriced,
		Risk:         RiskMedium,
	},
	{
		Type:         OpportunityArbitrage,
		Title:        "Arbitrage Window",
		Description:  "Two venues disagree on price. The gap won't last.",
		Action:       "Work the spread",
		DefaultAsset: AssetOil,
		Selection:    SelectFixed,
		Risk:         RiskLow,
	},
	{
		Type:         OpportunityMomentum,
		Title:        "Ride the Momentum",
		Description:  "This rally has legs. Trend followers are piling in.",
		Action:       "Chase the trend",
		DefaultAsset: AssetStocks,
		Selection:    SelectTrendingUp,
		Risk:         RiskMedium,
	},
	{
		Type:         OpportunityContrarian,
		Title:        "Catch the Falling Knife",
		Description:  "Everyone is selling. Contrarians smell a bottom.",
		Action:       "Buy the dip",
		DefaultAsset: AssetOil,
		Selection:    SelectTrendingDown,
		Risk:         RiskHigh,
	},
}
