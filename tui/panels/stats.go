package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/session"
	"github.com/zappabad/bullrun/tui/styles"
)

// StatsPanel displays the round clock, trade statistics, unlocked
// achievements, and the active opportunity if one is on offer.
type StatsPanel struct {
	snap    session.Snapshot
	focused bool
	width   int
	height  int
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{}
}

// Init initializes the panel.
func (p *StatsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *StatsPanel) Update(msg tea.Msg) (*StatsPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *StatsPanel) View() string {
	var content strings.Builder

	round := fmt.Sprintf("Round %d/%d", p.snap.Round, p.snap.TotalRounds)
	clock := fmt.Sprintf("%02d:%02d", p.snap.TimeLeft/60, p.snap.TimeLeft%60)
	content.WriteString(styles.HeaderStyle.Render(round))
	content.WriteString("  ")
	if p.snap.Paused {
		content.WriteString(styles.PausedStyle.Render("⏸ PAUSED"))
	} else {
		content.WriteString(styles.RowStyle.Render(clock))
	}
	content.WriteString("\n\n")

	stats := p.snap.Stats
	content.WriteString(styles.LabelStyle.Render("Trades      "))
	content.WriteString(fmt.Sprintf("%d (%d this round)\n", stats.Trades, stats.TradesThisRound))
	content.WriteString(styles.LabelStyle.Render("Profitable  "))
	content.WriteString(fmt.Sprintf("%d\n", stats.ProfitableTrades))
	content.WriteString(styles.LabelStyle.Render("Best trade  "))
	content.WriteString(styles.UpStyle.Render(styles.FormatMoney(stats.LargestGain)))
	content.WriteString("\n")
	content.WriteString(styles.LabelStyle.Render("Worst trade "))
	content.WriteString(styles.DownStyle.Render(styles.FormatMoney(stats.LargestLoss)))
	content.WriteString("\n")

	if opp := p.snap.ActiveOpportunity; opp != nil {
		content.WriteString("\n")
		content.WriteString(styles.OpportunityStyle.Render("⚡ " + opp.Title))
		content.WriteString("\n")
		content.WriteString(styles.MutedStyle.Render(truncate(opp.Description, p.width-4)))
		content.WriteString("\n")
		content.WriteString(styles.LabelStyle.Render(
			fmt.Sprintf("%s · risk %s · press o", opp.Action, opp.Risk)))
		content.WriteString("\n")
	}

	if unlocked := p.renderAchievements(); unlocked != "" {
		content.WriteString("\n")
		content.WriteString(unlocked)
	}

	if p.snap.GameOver && p.snap.Result != nil {
		content.WriteString("\n")
		content.WriteString(styles.HeaderStyle.Render("GAME OVER"))
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Final %s (%s)",
			styles.FormatMoney(p.snap.Result.FinalValue),
			styles.FormatPercent(p.snap.Result.ReturnPercent)))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📊 Session", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *StatsPanel) renderAchievements() string {
	var content strings.Builder
	for _, def := range catalog.AchievementDefs {
		if !p.snap.Achievements[def.ID] {
			continue
		}
		if content.Len() == 0 {
			content.WriteString(styles.HeaderStyle.Render("Achievements"))
			content.WriteString("\n")
		}
		content.WriteString(styles.AchievementStyle.Render("🏆 " + def.Title))
		content.WriteString("\n")
	}
	return content.String()
}

// SetFocus sets the focus state of the panel.
func (p *StatsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *StatsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot refreshes the panel from session state.
func (p *StatsPanel) SetSnapshot(snap session.Snapshot) {
	p.snap = snap
}
