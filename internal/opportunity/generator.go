package opportunity

import (
	"math/rand"
	"time"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/engine"
)

// GenerateProbability is the per-market-tick chance of a new offer when
// none is active.
const GenerateProbability = 0.10

// overpricedThreshold marks an asset as shortable when its price sits this
// far above the initial catalog price (1.3 = +30%).
const overpricedThreshold = 1.3

// MaybeGenerate rolls for a new offer. It returns nil when an offer is
// already active or the roll fails.
func MaybeGenerate(rng *rand.Rand, m *engine.Market, active bool) *Opportunity {
	if active || rng.Float64() >= GenerateProbability {
		return nil
	}

	tmpl := catalog.OpportunityTemplates[rng.Intn(len(catalog.OpportunityTemplates))]
	return &Opportunity{
		Type:        tmpl.Type,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Action:      tmpl.Action,
		Asset:       pickAsset(rng, m, tmpl),
		Risk:        tmpl.Risk,
		Time:        time.Now().UnixNano(),
	}
}

// pickAsset resolves the template's target asset from market state. An
// empty candidate set falls back to the template's default asset.
func pickAsset(rng *rand.Rand, m *engine.Market, tmpl catalog.OpportunityTemplate) catalog.AssetID {
	var candidates []catalog.AssetID

	switch tmpl.Selection {
	case catalog.SelectFixed:
		return tmpl.DefaultAsset
	case catalog.SelectRandom:
		candidates = catalog.Assets
	case catalog.SelectTrendingDown:
		for _, id := range catalog.Assets {
			if m.Trends[id].Direction == engine.TrendDown {
				candidates = append(candidates, id)
			}
		}
	case catalog.SelectTrendingUp:
		for _, id := range catalog.Assets {
			tr := m.Trends[id]
			if tr.Direction == engine.TrendUp && tr.Strength > 1 {
				candidates = append(candidates, id)
			}
		}
	case catalog.SelectOverpriced:
		for _, id := range catalog.Assets {
			if m.Prices[id] >= catalog.AssetTable[id].InitialPrice*overpricedThreshold {
				candidates = append(candidates, id)
			}
		}
	}

	if len(candidates) == 0 {
		return tmpl.DefaultAsset
	}
	return candidates[rng.Intn(len(candidates))]
}
