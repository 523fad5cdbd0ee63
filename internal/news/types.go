// Package news selects market news events from the catalog pools. A chosen
// event is visible to the player immediately; its price impact is applied
// by the session only after ImpactDelay, giving the player time to react.
package news

import (
	"time"

	"github.com/zappabad/bullrun/internal/catalog"
)

// ImpactDelay is the latency window between a news event's announcement
// and its price impact reaching the engine.
const ImpactDelay = 4 * time.Second

// Event is a selected news event with its pending market impact.
type Event struct {
	Time    int64
	Title   string
	Message string
	Tip     string
	Impact  map[catalog.AssetID]float64
	Crash   bool
}
