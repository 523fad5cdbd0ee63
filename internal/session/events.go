package session

import (
	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/engine"
	"github.com/zappabad/bullrun/internal/news"
	"github.com/zappabad/bullrun/internal/opportunity"
	"github.com/zappabad/bullrun/internal/portfolio"
)

// Event is an observation emitted on the session's external stream.
type Event interface {
	isEvent()
}

// RoundStartedEvent fires when a round begins, including round one.
type RoundStartedEvent struct {
	Round    int
	TimeLeft int
}

func (RoundStartedEvent) isEvent() {}

// TimerTickEvent fires on each second of the round countdown.
type TimerTickEvent struct {
	Round    int
	TimeLeft int
}

func (TimerTickEvent) isEvent() {}

// PricesUpdatedEvent fires after every market tick.
type PricesUpdatedEvent struct {
	Prices map[catalog.AssetID]float64
	Trends map[catalog.AssetID]engine.Trend
}

func (PricesUpdatedEvent) isEvent() {}

// NewsPublishedEvent fires the moment an event becomes visible; the price
// impact lands later, announced by ImpactAppliedEvent.
type NewsPublishedEvent struct {
	News news.Event
}

func (NewsPublishedEvent) isEvent() {}

// ImpactAppliedEvent fires when a deferred news impact reaches prices.
type ImpactAppliedEvent struct {
	News   news.Event
	Prices map[catalog.AssetID]float64
}

func (ImpactAppliedEvent) isEvent() {}

// OpportunityOfferedEvent fires when a timed offer appears.
type OpportunityOfferedEvent struct {
	Opportunity opportunity.Opportunity
}

func (OpportunityOfferedEvent) isEvent() {}

// OpportunityExpiredEvent fires when an unaccepted offer times out or is
// cleared by a round transition.
type OpportunityExpiredEvent struct {
	Opportunity opportunity.Opportunity
}

func (OpportunityExpiredEvent) isEvent() {}

// TradeExecutedEvent confirms a successful ledger mutation.
type TradeExecutedEvent struct {
	Result portfolio.TradeResult
	Value  float64 // portfolio value after the trade
}

func (TradeExecutedEvent) isEvent() {}

// AchievementUnlockedEvent fires once per achievement per session.
type AchievementUnlockedEvent struct {
	ID          catalog.AchievementID
	Title       string
	Description string
}

func (AchievementUnlockedEvent) isEvent() {}

// PauseChangedEvent fires on pause and resume.
type PauseChangedEvent struct {
	Paused bool
}

func (PauseChangedEvent) isEvent() {}

// GameOverEvent fires exactly once when the session reaches its terminal
// state.
type GameOverEvent struct {
	Result Result
}

func (GameOverEvent) isEvent() {}
