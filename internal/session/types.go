package session

import (
	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/engine"
	"github.com/zappabad/bullrun/internal/news"
	"github.com/zappabad/bullrun/internal/opportunity"
	"github.com/zappabad/bullrun/internal/portfolio"
)

// Result is the frozen end-of-game record. Best and worst assets are
// chosen among assets with positive recorded cost basis; both are empty
// when the player never held anything.
type Result struct {
	FinalValue    float64
	ReturnPercent float64
	BestAsset     catalog.AssetID
	WorstAsset    catalog.AssetID
}

// Snapshot is a deep copy of the externally observable session state.
// Mutating a snapshot never affects the session.
type Snapshot struct {
	Difficulty  catalog.Difficulty
	Round       int
	TotalRounds int
	TimeLeft    int // seconds remaining in the current round
	Paused      bool
	GameOver    bool

	Prices  map[catalog.AssetID]float64
	Trends  map[catalog.AssetID]engine.Trend
	History map[catalog.AssetID][]float64

	Cash     float64
	Holdings map[catalog.AssetID]portfolio.Holding
	Shorts   map[catalog.AssetID]portfolio.ShortPosition
	Stats    portfolio.Stats
	Value    float64

	ActiveNews        *news.Event
	ActiveOpportunity *opportunity.Opportunity
	Achievements      map[catalog.AchievementID]bool

	Result *Result
}
