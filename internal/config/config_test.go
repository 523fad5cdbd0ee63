package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
server:
  addr: ":9090"
  read_timeout: 5s

game:
  difficulty: hard
  seed: 42
  market_interval: 8s

logging:
  level: debug
  format: text
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected read timeout: %v", cfg.Server.ReadTimeout)
	}
	if cfg.Game.Difficulty != "hard" {
		t.Errorf("unexpected difficulty: %s", cfg.Game.Difficulty)
	}
	if cfg.Game.Seed != 42 {
		t.Errorf("unexpected seed: %d", cfg.Game.Seed)
	}
	if cfg.Game.MarketInterval != 8*time.Second {
		t.Errorf("unexpected market interval: %v", cfg.Game.MarketInterval)
	}
	// Untouched keys keep their defaults.
	if cfg.Game.TimerInterval != time.Second {
		t.Errorf("unexpected timer interval: %v", cfg.Game.TimerInterval)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Game.Difficulty != "normal" {
		t.Errorf("unexpected default difficulty: %s", cfg.Game.Difficulty)
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown difficulty", func(c *Config) { c.Game.Difficulty = "nightmare" }},
		{"missing addr", func(c *Config) { c.Server.Addr = "" }},
		{"market interval below timer", func(c *Config) { c.Game.MarketInterval = 500 * time.Millisecond }},
		{"negative impact delay", func(c *Config) { c.Game.ImpactDelay = -time.Second }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero max sessions", func(c *Config) { c.Game.MaxSessions = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected an error, got nil")
			}
		})
	}
}
