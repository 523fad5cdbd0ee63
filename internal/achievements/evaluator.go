// Package achievements evaluates milestone predicates against portfolio
// and market snapshots. Unlock flags are monotonic: once set they never
// revert.
package achievements

import (
	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/portfolio"
)

// Snapshot is the read-only state an evaluation pass inspects.
type Snapshot struct {
	Ledger      *portfolio.Ledger
	Prices      map[catalog.AssetID]float64
	Value       float64
	LastTrade   *portfolio.TradeResult
	CrashesSeen int
	GameOver    bool
	FinalReturn float64 // percent; meaningful only when GameOver
}

// Evaluator tracks which achievements a session has unlocked.
type Evaluator struct {
	unlocked map[catalog.AchievementID]bool
}

// NewEvaluator creates an evaluator with nothing unlocked.
func NewEvaluator() *Evaluator {
	return &Evaluator{unlocked: make(map[catalog.AchievementID]bool, len(catalog.AchievementDefs))}
}

// Evaluate runs every predicate and returns the IDs newly unlocked by
// this pass, in catalog order.
func (e *Evaluator) Evaluate(s Snapshot) []catalog.AchievementID {
	var unlocked []catalog.AchievementID
	for _, def := range catalog.AchievementDefs {
		if e.unlocked[def.ID] {
			continue
		}
		if satisfied(def.ID, s) {
			e.unlocked[def.ID] = true
			unlocked = append(unlocked, def.ID)
		}
	}
	return unlocked
}

// Unlocked reports whether a single achievement is unlocked.
func (e *Evaluator) Unlocked(id catalog.AchievementID) bool {
	return e.unlocked[id]
}

// All returns a copy of the unlock map.
func (e *Evaluator) All() map[catalog.AchievementID]bool {
	out := make(map[catalog.AchievementID]bool, len(catalog.AchievementDefs))
	for _, def := range catalog.AchievementDefs {
		out[def.ID] = e.unlocked[def.ID]
	}
	return out
}

func satisfied(id catalog.AchievementID, s Snapshot) bool {
	switch id {
	case catalog.AchievementFirstProfit:
		return s.Ledger.Stats.ProfitableTrades > 0

	case catalog.AchievementWhale:
		for _, h := range s.Ledger.Holdings {
			if h.Quantity >= catalog.WhaleQuantity {
				return true
			}
		}
		return false

	case catalog.AchievementCryptoDegen:
		if s.Value <= 0 {
			return false
		}
		h := s.Ledger.Holdings[catalog.AssetCrypto]
		return h != nil && h.Quantity*s.Prices[catalog.AssetCrypto] > s.Value*0.5

	case catalog.AchievementDiversified:
		for _, assetID := range catalog.Assets {
			h := s.Ledger.Holdings[assetID]
			if h == nil || h.Quantity <= 0 {
				return false
			}
		}
		return true

	case catalog.AchievementHighRoller:
		return s.Value >= catalog.HighRollerValue

	case catalog.AchievementShortSeller:
		return s.LastTrade != nil &&
			s.LastTrade.Action == portfolio.ActionCover &&
			s.LastTrade.Profit > 0

	case catalog.AchievementCrashSurvivor:
		return s.GameOver && s.CrashesSeen > 0 && s.FinalReturn > 0

	default:
		return false
	}
}
