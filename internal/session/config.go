package session

import (
	"log/slog"
	"time"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/news"
)

// Config holds configuration for a game session.
type Config struct {
	// Difficulty selects the catalog preset.
	Difficulty catalog.Difficulty
	// Seed seeds the session's random source; 0 uses the wall clock.
	Seed int64
	// TimerInterval is the round countdown granularity.
	TimerInterval time.Duration
	// MarketInterval is the spacing between price-engine ticks.
	MarketInterval time.Duration
	// ImpactDelay defers a news event's price impact after its
	// announcement.
	ImpactDelay time.Duration
	// OpportunityTTL expires an unaccepted offer.
	OpportunityTTL time.Duration
	// CommandBuffer is the size of the inbound command channel.
	CommandBuffer int
	// EventBuffer is the size of the external events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
	// Scheduler overrides the real-time scheduler; nil uses timers.
	Scheduler Scheduler
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Difficulty:     catalog.DifficultyNormal,
		TimerInterval:  time.Second,
		MarketInterval: 10 * time.Second,
		ImpactDelay:    news.ImpactDelay,
		OpportunityTTL: 30 * time.Second,
		CommandBuffer:  64,
		EventBuffer:    256,
		DropEvents:     true,
	}
}
