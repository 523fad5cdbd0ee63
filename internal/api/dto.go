package api

import (
	"errors"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/engine"
	"github.com/zappabad/bullrun/internal/news"
	"github.com/zappabad/bullrun/internal/opportunity"
	"github.com/zappabad/bullrun/internal/portfolio"
	"github.com/zappabad/bullrun/internal/session"
)

type trendDTO struct {
	Direction string `json:"direction"`
	Strength  int    `json:"strength"`
}

type holdingDTO struct {
	Quantity  float64 `json:"quantity"`
	CostBasis float64 `json:"cost_basis"`
}

type shortDTO struct {
	EntryPrice float64 `json:"entry_price"`
	Value      float64 `json:"value"`
}

type statsDTO struct {
	Trades              int     `json:"trades"`
	TradesThisRound     int     `json:"trades_this_round"`
	ProfitableTrades    int     `json:"profitable_trades"`
	LargestGain         float64 `json:"largest_gain"`
	LargestLoss         float64 `json:"largest_loss"`
	CrashRoundsSurvived int     `json:"crash_rounds_survived"`
}

type newsDTO struct {
	Time    int64  `json:"time"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Tip     string `json:"tip"`
	Crash   bool   `json:"crash"`
}

type opportunityDTO struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Asset       string `json:"asset"`
	Risk        string `json:"risk"`
	Time        int64  `json:"time"`
}

type resultDTO struct {
	FinalValue    float64 `json:"final_value"`
	ReturnPercent float64 `json:"return_percent"`
	BestAsset     string  `json:"best_asset"`
	WorstAsset    string  `json:"worst_asset"`
}

type tradeResultDTO struct {
	Asset    string  `json:"asset"`
	Action   string  `json:"action"`
	Units    float64 `json:"units"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
	Proceeds float64 `json:"proceeds"`
	Profit   float64 `json:"profit"`
	Realized bool    `json:"realized"`
}

type snapshotDTO struct {
	ID          string `json:"id"`
	Difficulty  string `json:"difficulty"`
	Round       int    `json:"round"`
	TotalRounds int    `json:"total_rounds"`
	TimeLeft    int    `json:"time_left"`
	Paused      bool   `json:"paused"`
	GameOver    bool   `json:"game_over"`

	Prices  map[string]float64   `json:"prices"`
	Trends  map[string]trendDTO  `json:"trends"`
	History map[string][]float64 `json:"history"`

	Cash     float64               `json:"cash"`
	Value    float64               `json:"value"`
	Holdings map[string]holdingDTO `json:"holdings"`
	Shorts   map[string]shortDTO   `json:"shorts"`
	Stats    statsDTO              `json:"stats"`

	News         *newsDTO        `json:"news,omitempty"`
	Opportunity  *opportunityDTO `json:"opportunity,omitempty"`
	Achievements []string        `json:"achievements"`

	Result *resultDTO `json:"result,omitempty"`
}

func toSnapshotDTO(id string, snap session.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		ID:           id,
		Difficulty:   snap.Difficulty.String(),
		Round:        snap.Round,
		TotalRounds:  snap.TotalRounds,
		TimeLeft:     snap.TimeLeft,
		Paused:       snap.Paused,
		GameOver:     snap.GameOver,
		Prices:       make(map[string]float64, len(snap.Prices)),
		Trends:       make(map[string]trendDTO, len(snap.Trends)),
		History:      make(map[string][]float64, len(snap.History)),
		Cash:         snap.Cash,
		Value:        snap.Value,
		Holdings:     make(map[string]holdingDTO),
		Shorts:       make(map[string]shortDTO),
		Stats:        statsDTO(snap.Stats),
		News:         toNewsDTO(snap.ActiveNews),
		Opportunity:  toOpportunityDTO(snap.ActiveOpportunity),
		Achievements: unlockedIDs(snap.Achievements),
	}

	for asset, price := range snap.Prices {
		dto.Prices[string(asset)] = price
	}
	for asset, trend := range snap.Trends {
		dto.Trends[string(asset)] = trendDTO{
			Direction: trend.Direction.String(),
			Strength:  trend.Strength,
		}
	}
	for asset, hist := range snap.History {
		dto.History[string(asset)] = hist
	}
	for asset, h := range snap.Holdings {
		dto.Holdings[string(asset)] = holdingDTO{Quantity: h.Quantity, CostBasis: h.CostBasis}
	}
	for asset, sp := range snap.Shorts {
		dto.Shorts[string(asset)] = shortDTO{EntryPrice: sp.EntryPrice, Value: sp.Value}
	}

	if snap.Result != nil {
		dto.Result = &resultDTO{
			FinalValue:    snap.Result.FinalValue,
			ReturnPercent: snap.Result.ReturnPercent,
			BestAsset:     string(snap.Result.BestAsset),
			WorstAsset:    string(snap.Result.WorstAsset),
		}
	}
	return dto
}

func toNewsDTO(ev *news.Event) *newsDTO {
	if ev == nil {
		return nil
	}
	return &newsDTO{
		Time:    ev.Time,
		Title:   ev.Title,
		Message: ev.Message,
		Tip:     ev.Tip,
		Crash:   ev.Crash,
	}
}

func toOpportunityDTO(o *opportunity.Opportunity) *opportunityDTO {
	if o == nil {
		return nil
	}
	return &opportunityDTO{
		Type:        string(o.Type),
		Title:       o.Title,
		Description: o.Description,
		Action:      o.Action,
		Asset:       string(o.Asset),
		Risk:        string(o.Risk),
		Time:        o.Time,
	}
}

func toTradeResultDTO(res portfolio.TradeResult) tradeResultDTO {
	return tradeResultDTO{
		Asset:    string(res.Asset),
		Action:   res.Action.String(),
		Units:    res.Units,
		Price:    res.Price,
		Cost:     res.Cost,
		Proceeds: res.Proceeds,
		Profit:   res.Profit,
		Realized: res.Realized,
	}
}

// unlockedIDs flattens the achievement map into catalog display order.
func unlockedIDs(unlocked map[catalog.AchievementID]bool) []string {
	ids := make([]string, 0, len(unlocked))
	for _, def := range catalog.AchievementDefs {
		if unlocked[def.ID] {
			ids = append(ids, string(def.ID))
		}
	}
	return ids
}

// amountDTO is the wire form of a trade sizing; exactly one field must
// be set.
type amountDTO struct {
	Dollars  *float64 `json:"dollars,omitempty"`
	Fraction *float64 `json:"fraction,omitempty"`
	Units    *float64 `json:"units,omitempty"`
}

var errAmbiguousAmount = errors.New("amount must set exactly one of dollars, fraction, units")

func (a amountDTO) toSpec() (portfolio.AmountSpec, error) {
	set := 0
	var spec portfolio.AmountSpec
	if a.Dollars != nil {
		set++
		spec = portfolio.Dollars(*a.Dollars)
	}
	if a.Fraction != nil {
		set++
		spec = portfolio.Fraction(*a.Fraction)
	}
	if a.Units != nil {
		set++
		spec = portfolio.Units(*a.Units)
	}
	if set != 1 {
		return portfolio.AmountSpec{}, errAmbiguousAmount
	}
	return spec, nil
}

// wsMessage is a type-tagged event frame sent to WebSocket clients.
type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// eventMessage converts a session event to its wire frame.
func eventMessage(ev session.Event) (wsMessage, bool) {
	switch e := ev.(type) {
	case session.RoundStartedEvent:
		return wsMessage{Type: "round_started", Payload: map[string]any{
			"round": e.Round, "time_left": e.TimeLeft,
		}}, true
	case session.TimerTickEvent:
		return wsMessage{Type: "timer_tick", Payload: map[string]any{
			"round": e.Round, "time_left": e.TimeLeft,
		}}, true
	case session.PricesUpdatedEvent:
		return wsMessage{Type: "prices_updated", Payload: map[string]any{
			"prices": priceMap(e.Prices), "trends": trendMap(e.Trends),
		}}, true
	case session.NewsPublishedEvent:
		return wsMessage{Type: "news_published", Payload: toNewsDTO(&e.News)}, true
	case session.ImpactAppliedEvent:
		return wsMessage{Type: "impact_applied", Payload: map[string]any{
			"news": toNewsDTO(&e.News), "prices": priceMap(e.Prices),
		}}, true
	case session.OpportunityOfferedEvent:
		return wsMessage{Type: "opportunity_offered", Payload: toOpportunityDTO(&e.Opportunity)}, true
	case session.OpportunityExpiredEvent:
		return wsMessage{Type: "opportunity_expired", Payload: toOpportunityDTO(&e.Opportunity)}, true
	case session.TradeExecutedEvent:
		return wsMessage{Type: "trade_executed", Payload: map[string]any{
			"trade": toTradeResultDTO(e.Result), "value": e.Value,
		}}, true
	case session.AchievementUnlockedEvent:
		return wsMessage{Type: "achievement_unlocked", Payload: map[string]any{
			"id": string(e.ID), "title": e.Title, "description": e.Description,
		}}, true
	case session.PauseChangedEvent:
		return wsMessage{Type: "pause_changed", Payload: map[string]any{
			"paused": e.Paused,
		}}, true
	case session.GameOverEvent:
		return wsMessage{Type: "game_over", Payload: resultDTO{
			FinalValue:    e.Result.FinalValue,
			ReturnPercent: e.Result.ReturnPercent,
			BestAsset:     string(e.Result.BestAsset),
			WorstAsset:    string(e.Result.WorstAsset),
		}}, true
	default:
		return wsMessage{}, false
	}
}

func priceMap(prices map[catalog.AssetID]float64) map[string]float64 {
	out := make(map[string]float64, len(prices))
	for asset, p := range prices {
		out[string(asset)] = p
	}
	return out
}

func trendMap(trends map[catalog.AssetID]engine.Trend) map[string]trendDTO {
	out := make(map[string]trendDTO, len(trends))
	for asset, t := range trends {
		out[string(asset)] = trendDTO{Direction: t.Direction.String(), Strength: t.Strength}
	}
	return out
}
