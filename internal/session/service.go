// Package session composes the price engine, news and opportunity
// generators, portfolio ledger, and achievement evaluator into one game
// session. All state lives behind a single actor goroutine: timers, trade
// commands, and queries funnel through one command channel, so no
// mutation ever races another.
package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/bullrun/internal/achievements"
	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/engine"
	"github.com/zappabad/bullrun/internal/metrics"
	"github.com/zappabad/bullrun/internal/news"
	"github.com/zappabad/bullrun/internal/opportunity"
	"github.com/zappabad/bullrun/internal/portfolio"
)

var (
	ErrClosed            = errors.New("session closed")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrSessionOver       = errors.New("session is over")
	ErrSessionPaused     = errors.New("session is paused")
	ErrNoOpportunity     = errors.New("no active opportunity")
)

// command types
type cmdType int

const (
	cmdSnapshot cmdType = iota
	cmdTrade
	cmdTogglePause
	cmdAcceptOpportunity
	cmdEnd

	// scheduler-driven commands
	cmdTimerTick
	cmdMarketTick
	cmdApplyImpact
	cmdExpireOpportunity
)

type command struct {
	typ    cmdType
	asset  catalog.AssetID
	action portfolio.TradeAction
	amount portfolio.AmountSpec
	respCh chan<- response
}

type response struct {
	snapshot Snapshot
	trade    portfolio.TradeResult
	err      error
}

// Service owns one game session and serializes every mutation through its
// actor goroutine.
type Service struct {
	cfg      Config
	log      *slog.Logger
	settings catalog.DifficultySettings
	sched    Scheduler
	rng      *rand.Rand

	// state below is touched only by the actor goroutine
	market        *engine.Market
	ledger        *portfolio.Ledger
	eval          *achievements.Evaluator
	round         int
	timeLeft      int
	paused        bool
	over          bool
	result        *Result
	activeNews    *news.Event
	activeOpp     *opportunity.Opportunity
	lastTrade     *portfolio.TradeResult
	crashesSeen   int
	roundHadCrash bool

	timerTask  Task
	marketTask Task
	impactTask Task
	oppTask    Task

	cmdCh         chan command
	events        chan Event
	droppedEvents atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a session and starts round one immediately.
func New(cfg Config) (*Service, error) {
	def := DefaultConfig()
	if cfg.Difficulty == "" {
		cfg.Difficulty = def.Difficulty
	}
	if cfg.TimerInterval <= 0 {
		cfg.TimerInterval = def.TimerInterval
	}
	if cfg.MarketInterval <= 0 {
		cfg.MarketInterval = def.MarketInterval
	}
	if cfg.ImpactDelay <= 0 {
		cfg.ImpactDelay = def.ImpactDelay
	}
	if cfg.OpportunityTTL <= 0 {
		cfg.OpportunityTTL = def.OpportunityTTL
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = def.CommandBuffer
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewTimerScheduler()
	}

	settings, ok := catalog.Settings(cfg.Difficulty)
	if !ok {
		return nil, ErrUnknownDifficulty
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Service{
		cfg:      cfg,
		log:      cfg.Logger,
		settings: settings,
		sched:    cfg.Scheduler,
		rng:      rng,
		market:   engine.NewMarket(rng),
		ledger:   portfolio.NewLedger(settings.StartingCash),
		eval:     achievements.NewEvaluator(),
		round:    1,
		cmdCh:    make(chan command, cfg.CommandBuffer),
		events:   make(chan Event, cfg.EventBuffer),
		closed:   make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()
	return s, nil
}

func (s *Service) run() {
	defer s.wg.Done()
	defer close(s.events)

	s.startRound()
	s.startTimerTask()

	for {
		select {
		case <-s.closed:
			s.cancelAllTasks()
			return
		case cmd := <-s.cmdCh:
			s.process(cmd)
		}
	}
}

func (s *Service) process(cmd command) {
	var resp response

	switch cmd.typ {
	case cmdSnapshot:
		resp.snapshot = s.snapshot()
	case cmdTrade:
		resp.trade, resp.err = s.handleTrade(cmd.asset, cmd.action, cmd.amount)
	case cmdTogglePause:
		resp.err = s.handleTogglePause()
		resp.snapshot = s.snapshot()
	case cmdAcceptOpportunity:
		resp.trade, resp.err = s.handleAcceptOpportunity()
	case cmdEnd:
		if !s.over {
			s.finish()
		}
		resp.snapshot = s.snapshot()
	case cmdTimerTick:
		s.handleTimerTick()
	case cmdMarketTick:
		s.handleMarketTick()
	case cmdApplyImpact:
		s.handleApplyImpact()
	case cmdExpireOpportunity:
		s.clearOpportunity(true)
	}

	if cmd.respCh != nil {
		cmd.respCh <- resp
	}
}

// --- round / timer state machine ---

func (s *Service) startRound() {
	s.timeLeft = int(s.settings.RoundDuration / time.Second)
	s.roundHadCrash = false
	s.ledger.ResetRoundTrades()
	s.emit(RoundStartedEvent{Round: s.round, TimeLeft: s.timeLeft})

	ev := news.Select(s.rng, s.settings.CrashProbability, false)
	s.activeNews = &ev
	if ev.Crash {
		s.crashesSeen++
		s.roundHadCrash = true
	}
	metrics.NewsEventsTotal.WithLabelValues(crashLabel(ev.Crash)).Inc()
	s.log.Info("news published", "round", s.round, "title", ev.Title, "crash", ev.Crash)
	s.emit(NewsPublishedEvent{News: ev})

	// Impact lands after the reaction window. Cancelled on pause and on
	// round end; see handleTogglePause and endRound.
	s.impactTask = s.sched.After(s.cfg.ImpactDelay, func() {
		s.enqueue(command{typ: cmdApplyImpact})
	})

	s.restartMarketTask()
}

func (s *Service) endRound() {
	s.cancelTask(&s.impactTask)
	s.clearOpportunity(true)
	if s.roundHadCrash {
		s.ledger.Stats.CrashRoundsSurvived++
	}
	if s.round >= s.settings.TotalRounds {
		s.finish()
		return
	}
	s.round++
	s.startRound()
}

func (s *Service) finish() {
	s.cancelAllTasks()
	s.over = true

	finalValue := s.ledger.Value(s.market.Prices)
	ret := (finalValue - s.ledger.StartingCash) / s.ledger.StartingCash * 100
	best, worst := s.assetPerformance()
	s.result = &Result{
		FinalValue:    finalValue,
		ReturnPercent: ret,
		BestAsset:     best,
		WorstAsset:    worst,
	}

	s.evaluateAchievements(true, ret)
	s.log.Info("game over", "final_value", finalValue, "return_pct", ret)
	s.emit(GameOverEvent{Result: *s.result})
}

// assetPerformance ranks assets by current value against cost basis,
// considering only assets with positive recorded basis.
func (s *Service) assetPerformance() (best, worst catalog.AssetID) {
	bestRet, worstRet := 0.0, 0.0
	for _, id := range catalog.Assets {
		h := s.ledger.Holdings[id]
		if h == nil || h.CostBasis <= 0 {
			continue
		}
		ret := (h.Quantity*s.market.Prices[id] - h.CostBasis) / h.CostBasis
		if best == "" || ret > bestRet {
			best, bestRet = id, ret
		}
		if worst == "" || ret < worstRet {
			worst, worstRet = id, ret
		}
	}
	return best, worst
}

// --- tick handlers ---

func (s *Service) handleTimerTick() {
	if s.paused || s.over {
		return
	}
	s.timeLeft--
	s.emit(TimerTickEvent{Round: s.round, TimeLeft: s.timeLeft})
	if s.timeLeft <= 0 {
		s.endRound()
	}
}

func (s *Service) handleMarketTick() {
	if s.paused || s.over {
		return
	}
	s.market.Advance(s.rng, nil, s.engineSettings())
	metrics.MarketTicksTotal.Inc()
	s.emit(PricesUpdatedEvent{Prices: copyPrices(s.market.Prices), Trends: copyTrends(s.market.Trends)})

	if op := opportunity.MaybeGenerate(s.rng, s.market, s.activeOpp != nil); op != nil {
		s.activeOpp = op
		s.emit(OpportunityOfferedEvent{Opportunity: *op})
		s.oppTask = s.sched.After(s.cfg.OpportunityTTL, func() {
			s.enqueue(command{typ: cmdExpireOpportunity})
		})
	}

	s.evaluateAchievements(false, 0)
}

func (s *Service) handleApplyImpact() {
	if s.paused || s.over || s.activeNews == nil {
		return
	}
	s.market.Advance(s.rng, s.activeNews.Impact, s.engineSettings())
	metrics.MarketTicksTotal.Inc()
	s.emit(ImpactAppliedEvent{News: *s.activeNews, Prices: copyPrices(s.market.Prices)})
	s.evaluateAchievements(false, 0)
}

// --- command handlers ---

func (s *Service) handleTrade(asset catalog.AssetID, action portfolio.TradeAction, amount portfolio.AmountSpec) (portfolio.TradeResult, error) {
	if s.over {
		return portfolio.TradeResult{}, ErrSessionOver
	}
	if s.paused {
		return portfolio.TradeResult{}, ErrSessionPaused
	}
	price, ok := s.market.Prices[asset]
	if !ok {
		metrics.TradeRejectionsTotal.WithLabelValues("unknown_asset").Inc()
		return portfolio.TradeResult{}, portfolio.ErrUnknownAsset
	}

	var res portfolio.TradeResult
	var err error
	switch action {
	case portfolio.ActionBuy:
		res, err = s.ledger.Buy(asset, price, amount)
	case portfolio.ActionSell:
		res, err = s.ledger.Sell(asset, price, amount)
	case portfolio.ActionShort:
		res, err = s.ledger.Short(asset, price, amount)
	case portfolio.ActionCover:
		if amount.Kind != portfolio.AmountFraction {
			err = portfolio.ErrInvalidAmount
		} else {
			res, err = s.ledger.Cover(asset, price, amount.Value)
		}
	default:
		err = portfolio.ErrInvalidAmount
	}
	if err != nil {
		metrics.TradeRejectionsTotal.WithLabelValues(rejectionLabel(err)).Inc()
		return portfolio.TradeResult{}, err
	}

	metrics.TradesTotal.WithLabelValues(action.String()).Inc()
	s.lastTrade = &res
	s.emit(TradeExecutedEvent{Result: res, Value: s.ledger.Value(s.market.Prices)})
	s.evaluateAchievements(false, 0)
	return res, nil
}

func (s *Service) handleTogglePause() error {
	if s.over {
		return ErrSessionOver
	}
	s.paused = !s.paused
	if s.paused {
		// Stop both clocks before any further tick fires. The pending
		// news impact is cancelled outright rather than replayed on
		// resume: stale mutations are worse than a lost impact.
		s.cancelTask(&s.timerTask)
		s.cancelTask(&s.marketTask)
		s.cancelTask(&s.impactTask)
		s.cancelTask(&s.oppTask)
	} else {
		s.startTimerTask()
		s.restartMarketTask()
		if s.activeOpp != nil {
			s.oppTask = s.sched.After(s.cfg.OpportunityTTL, func() {
				s.enqueue(command{typ: cmdExpireOpportunity})
			})
		}
	}
	s.emit(PauseChangedEvent{Paused: s.paused})
	return nil
}

func (s *Service) handleAcceptOpportunity() (portfolio.TradeResult, error) {
	if s.over {
		return portfolio.TradeResult{}, ErrSessionOver
	}
	if s.paused {
		return portfolio.TradeResult{}, ErrSessionPaused
	}
	if s.activeOpp == nil {
		return portfolio.TradeResult{}, ErrNoOpportunity
	}

	op := *s.activeOpp
	action, amount := opportunityTrade(op.Type)
	res, err := s.handleTrade(op.Asset, action, amount)
	if err != nil {
		return portfolio.TradeResult{}, err
	}
	s.clearOpportunity(false)
	return res, nil
}

// opportunityTrade maps an offer type to the ledger operation accepting
// it performs.
func opportunityTrade(typ catalog.OpportunityType) (portfolio.TradeAction, portfolio.AmountSpec) {
	switch typ {
	case catalog.OpportunityDouble:
		return portfolio.ActionBuy, portfolio.Fraction(1)
	case catalog.OpportunityLeverage:
		return portfolio.ActionBuy, portfolio.Fraction(0.5)
	case catalog.OpportunityShort:
		return portfolio.ActionShort, portfolio.Fraction(0.4)
	case catalog.OpportunityHedge:
		return portfolio.ActionShort, portfolio.Fraction(0.2)
	case catalog.OpportunityArbitrage:
		return portfolio.ActionShort, portfolio.Fraction(0.15)
	default: // insider, momentum, contrarian
		return portfolio.ActionBuy, portfolio.Fraction(0.25)
	}
}

func (s *Service) clearOpportunity(expired bool) {
	if s.activeOpp == nil {
		return
	}
	s.cancelTask(&s.oppTask)
	if expired {
		s.emit(OpportunityExpiredEvent{Opportunity: *s.activeOpp})
	}
	s.activeOpp = nil
}

func (s *Service) evaluateAchievements(gameOver bool, finalReturn float64) {
	snap := achievements.Snapshot{
		Ledger:      s.ledger,
		Prices:      s.market.Prices,
		Value:       s.ledger.Value(s.market.Prices),
		LastTrade:   s.lastTrade,
		CrashesSeen: s.crashesSeen,
		GameOver:    gameOver,
		FinalReturn: finalReturn,
	}
	for _, id := range s.eval.Evaluate(snap) {
		def, _ := catalog.Achievement(id)
		metrics.AchievementsUnlockedTotal.Inc()
		s.log.Info("achievement unlocked", "id", id)
		s.emit(AchievementUnlockedEvent{ID: id, Title: def.Title, Description: def.Description})
	}
}

// --- task plumbing ---

func (s *Service) startTimerTask() {
	s.cancelTask(&s.timerTask)
	s.timerTask = s.sched.Every(s.cfg.TimerInterval, func() {
		s.enqueue(command{typ: cmdTimerTick})
	})
}

func (s *Service) restartMarketTask() {
	s.cancelTask(&s.marketTask)
	s.marketTask = s.sched.Every(s.cfg.MarketInterval, func() {
		s.enqueue(command{typ: cmdMarketTick})
	})
}

func (s *Service) cancelTask(t *Task) {
	if *t != nil {
		(*t).Cancel()
		*t = nil
	}
}

func (s *Service) cancelAllTasks() {
	s.cancelTask(&s.timerTask)
	s.cancelTask(&s.marketTask)
	s.cancelTask(&s.impactTask)
	s.cancelTask(&s.oppTask)
}

// enqueue delivers a scheduler-driven command without blocking the timer
// goroutine. A full queue drops the tick: lost-tick semantics, no
// catch-up.
func (s *Service) enqueue(cmd command) {
	select {
	case <-s.closed:
	case s.cmdCh <- cmd:
	default:
	}
}

func (s *Service) emit(ev Event) {
	if s.cfg.DropEvents {
		select {
		case s.events <- ev:
		default:
			s.droppedEvents.Add(1)
		}
		return
	}
	select {
	case s.events <- ev:
	case <-s.closed:
	}
}

func (s *Service) engineSettings() engine.Settings {
	return engine.Settings{VolatilityMult: s.settings.VolatilityMult}
}

// --- snapshot ---

func (s *Service) snapshot() Snapshot {
	snap := Snapshot{
		Difficulty:   s.cfg.Difficulty,
		Round:        s.round,
		TotalRounds:  s.settings.TotalRounds,
		TimeLeft:     s.timeLeft,
		Paused:       s.paused,
		GameOver:     s.over,
		Prices:       copyPrices(s.market.Prices),
		Trends:       copyTrends(s.market.Trends),
		History:      copyHistory(s.market.History),
		Cash:         s.ledger.Cash,
		Holdings:     make(map[catalog.AssetID]portfolio.Holding, len(catalog.Assets)),
		Shorts:       make(map[catalog.AssetID]portfolio.ShortPosition, len(catalog.Assets)),
		Stats:        s.ledger.Stats,
		Value:        s.ledger.Value(s.market.Prices),
		Achievements: s.eval.All(),
	}
	for _, id := range catalog.Assets {
		snap.Holdings[id] = *s.ledger.Holdings[id]
		snap.Shorts[id] = *s.ledger.Shorts[id]
	}
	if s.activeNews != nil {
		ev := *s.activeNews
		ev.Impact = copyPrices(s.activeNews.Impact)
		snap.ActiveNews = &ev
	}
	if s.activeOpp != nil {
		op := *s.activeOpp
		snap.ActiveOpportunity = &op
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

func copyPrices(m map[catalog.AssetID]float64) map[catalog.AssetID]float64 {
	out := make(map[catalog.AssetID]float64, len(m))
	for id, v := range m {
		out[id] = v
	}
	return out
}

func copyTrends(m map[catalog.AssetID]engine.Trend) map[catalog.AssetID]engine.Trend {
	out := make(map[catalog.AssetID]engine.Trend, len(m))
	for id, v := range m {
		out[id] = v
	}
	return out
}

func copyHistory(m map[catalog.AssetID][]float64) map[catalog.AssetID][]float64 {
	out := make(map[catalog.AssetID][]float64, len(m))
	for id, h := range m {
		out[id] = append([]float64(nil), h...)
	}
	return out
}

func crashLabel(crash bool) string {
	if crash {
		return "crash"
	}
	return "regular"
}

func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, portfolio.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, portfolio.ErrInsufficientHoldings):
		return "insufficient_holdings"
	case errors.Is(err, portfolio.ErrNoActivePosition):
		return "no_active_position"
	case errors.Is(err, portfolio.ErrShortAlreadyOpen):
		return "short_already_open"
	case errors.Is(err, portfolio.ErrUnknownAsset):
		return "unknown_asset"
	default:
		return "invalid_amount"
	}
}

// --- public surface ---

// Snapshot returns a deep copy of the current session state.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	resp, err := s.roundTrip(ctx, command{typ: cmdSnapshot})
	return resp.snapshot, err
}

// Trade executes one ledger operation at the current market price.
func (s *Service) Trade(ctx context.Context, asset catalog.AssetID, action portfolio.TradeAction, amount portfolio.AmountSpec) (portfolio.TradeResult, error) {
	resp, err := s.roundTrip(ctx, command{typ: cmdTrade, asset: asset, action: action, amount: amount})
	if err != nil {
		return portfolio.TradeResult{}, err
	}
	return resp.trade, resp.err
}

// TogglePause flips the pause flag, stopping or restarting both clocks.
func (s *Service) TogglePause(ctx context.Context) (Snapshot, error) {
	resp, err := s.roundTrip(ctx, command{typ: cmdTogglePause})
	if err != nil {
		return Snapshot{}, err
	}
	return resp.snapshot, resp.err
}

// AcceptOpportunity executes the active offer's trade and clears it.
func (s *Service) AcceptOpportunity(ctx context.Context) (portfolio.TradeResult, error) {
	resp, err := s.roundTrip(ctx, command{typ: cmdAcceptOpportunity})
	if err != nil {
		return portfolio.TradeResult{}, err
	}
	return resp.trade, resp.err
}

// End terminates the session early, freezing the result record.
func (s *Service) End(ctx context.Context) (Snapshot, error) {
	resp, err := s.roundTrip(ctx, command{typ: cmdEnd})
	if err != nil {
		return Snapshot{}, err
	}
	return resp.snapshot, resp.err
}

func (s *Service) roundTrip(ctx context.Context, cmd command) (response, error) {
	respCh := make(chan response, 1)
	cmd.respCh = respCh

	select {
	case <-s.closed:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	case s.cmdCh <- cmd:
	}

	select {
	case <-s.closed:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	case resp := <-respCh:
		return resp, nil
	}
}

// Events returns the external events channel for subscribers.
func (s *Service) Events() <-chan Event {
	return s.events
}

// DroppedEvents returns the count of dropped external events.
func (s *Service) DroppedEvents() int64 {
	return s.droppedEvents.Load()
}

// Close shuts down the session and waits for the actor to finish.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
