package main

import (
	"flag"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/session"
	"github.com/zappabad/bullrun/tui"
)

func main() {
	difficulty := flag.String("difficulty", "normal", "easy, normal, or hard")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	// The TUI owns the terminal; keep slog quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cfg := session.DefaultConfig()
	cfg.Difficulty = catalog.Difficulty(*difficulty)
	cfg.Seed = *seed

	sess, err := session.New(cfg)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("session start failed", "err", err)
		os.Exit(1)
	}
	defer sess.Close()

	p := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("tui error", "err", err)
		os.Exit(1)
	}
}
