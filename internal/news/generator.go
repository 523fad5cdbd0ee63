package news

import (
	"math/rand"
	"time"

	"github.com/zappabad/bullrun/internal/catalog"
)

// Select draws an event: with crashProbability from the crash pool,
// otherwise from the regular pool, uniformly within the chosen pool.
// forceCrash overrides the probability draw.
func Select(rng *rand.Rand, crashProbability float64, forceCrash bool) Event {
	pool := catalog.NewsPool
	if forceCrash || rng.Float64() < crashProbability {
		pool = catalog.CrashPool
	}
	return fromTemplate(pool[rng.Intn(len(pool))])
}

// fromTemplate copies a catalog template into an Event. The impact map is
// copied so later mutation can never reach the catalog.
func fromTemplate(t catalog.NewsTemplate) Event {
	impact := make(map[catalog.AssetID]float64, len(t.Impact))
	for id, mult := range t.Impact {
		impact[id] = mult
	}
	return Event{
		Time:    time.Now().UnixNano(),
		Title:   t.Title,
		Message: t.Message,
		Tip:     t.Tip,
		Impact:  impact,
		Crash:   t.Crash,
	}
}
