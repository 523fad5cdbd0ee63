package catalog

// AchievementID identifies a milestone.
type AchievementID string

const (
	AchievementFirstProfit   AchievementID = "first_profit"
	AchievementWhale         AchievementID = "whale"
	AchievementCryptoDegen   AchievementID = "crypto_degen"
	AchievementDiversified   AchievementID = "diversified"
	AchievementHighRoller    AchievementID = "high_roller"
	AchievementShortSeller   AchievementID = "short_seller"
	AchievementCrashSurvivor AchievementID = "crash_survivor"
)

// AchievementDef describes a milestone shown to the player.
type AchievementDef struct {
	ID          AchievementID
	Title       string
	Description string
}

// WhaleQuantity is the single-asset quantity that unlocks the whale
// achievement.
const WhaleQuantity = 50.0

// HighRollerValue is the portfolio value that unlocks high roller.
const HighRollerValue = 20000.0

// Achievement looks up a definition by ID.
func Achievement(id AchievementID) (AchievementDef, bool) {
	for _, def := range AchievementDefs {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDef{}, false
}

// AchievementDefs lists every achievement in display order.
var AchievementDefs = []AchievementDef{
	{AchievementFirstProfit, "First Blood", "Close your first profitable trade."},
	{AchievementWhale, "Whale", "Hold 50 units of a single asset."},
	{AchievementCryptoDegen, "Crypto Degen", "Crypto makes up over half your portfolio."},
	{AchievementDiversified, "Diversified", "Hold every asset at the same time."},
	{AchievementHighRoller, "High Roller", "Grow your portfolio past $20,000."},
	{AchievementShortSeller, "Big Short", "Close a short position at a profit."},
	{AchievementCrashSurvivor, "Crash Survivor", "Live through a market crash and still finish in the green."},
}
