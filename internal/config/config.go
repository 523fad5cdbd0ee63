// Package config loads server configuration from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/zappabad/bullrun/internal/catalog"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GameConfig holds defaults applied to newly created sessions
type GameConfig struct {
	Difficulty     string        `mapstructure:"difficulty"`
	Seed           int64         `mapstructure:"seed"`
	TimerInterval  time.Duration `mapstructure:"timer_interval"`
	MarketInterval time.Duration `mapstructure:"market_interval"`
	ImpactDelay    time.Duration `mapstructure:"impact_delay"`
	OpportunityTTL time.Duration `mapstructure:"opportunity_ttl"`
	MaxSessions    int           `mapstructure:"max_sessions"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. An
// empty path skips the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BULLRUN")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")

	// Game defaults
	v.SetDefault("game.difficulty", "normal")
	v.SetDefault("game.seed", 0) // 0 = wall clock
	v.SetDefault("game.timer_interval", "1s")
	v.SetDefault("game.market_interval", "10s")
	v.SetDefault("game.impact_delay", "4s")
	v.SetDefault("game.opportunity_ttl", "30s")
	v.SetDefault("game.max_sessions", 256)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout < time.Second {
		return fmt.Errorf("server.read_timeout must be at least 1 second")
	}
	if c.Server.WriteTimeout < time.Second {
		return fmt.Errorf("server.write_timeout must be at least 1 second")
	}

	if !catalog.Difficulty(c.Game.Difficulty).Valid() {
		return fmt.Errorf("game.difficulty must be one of: easy, normal, hard")
	}
	if c.Game.TimerInterval < 10*time.Millisecond {
		return fmt.Errorf("game.timer_interval must be at least 10ms")
	}
	if c.Game.MarketInterval < c.Game.TimerInterval {
		return fmt.Errorf("game.market_interval must not be shorter than game.timer_interval")
	}
	if c.Game.ImpactDelay < 0 {
		return fmt.Errorf("game.impact_delay must not be negative")
	}
	if c.Game.OpportunityTTL < time.Second {
		return fmt.Errorf("game.opportunity_ttl must be at least 1 second")
	}
	if c.Game.MaxSessions < 1 {
		return fmt.Errorf("game.max_sessions must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
