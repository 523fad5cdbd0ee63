// Package tui is the terminal client: five panels over one local game
// session.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/bullrun/internal/session"
	"github.com/zappabad/bullrun/tui/panels"
	"github.com/zappabad/bullrun/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusPrices    PanelFocus = 0
	FocusPortfolio PanelFocus = 1
	FocusNews      PanelFocus = 2
	FocusTrade     PanelFocus = 3
	FocusStats     PanelFocus = 4
)

// Model is the main TUI application model.
type Model struct {
	sess *session.Service

	// Panels
	pricesPanel    *panels.PricesPanel
	portfolioPanel *panels.PortfolioPanel
	newsPanel      *panels.NewsPanel
	tradePanel     *panels.TradePanel
	statsPanel     *panels.StatsPanel

	// Focus management
	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	// Status
	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model over a running session.
func NewModel(sess *session.Service) *Model {
	return &Model{
		sess:           sess,
		pricesPanel:    panels.NewPricesPanel(),
		portfolioPanel: panels.NewPortfolioPanel(),
		newsPanel:      panels.NewNewsPanel(),
		tradePanel:     panels.NewTradePanel(),
		statsPanel:     panels.NewStatsPanel(),
		focusedPanel:   FocusTrade,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.pricesPanel.Init(),
		m.portfolioPanel.Init(),
		m.newsPanel.Init(),
		m.tradePanel.Init(),
		m.statsPanel.Init(),
		m.listenEvents(),
		m.fetchSnapshot(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % 5

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = 4
			}

		case "f1":
			m.focusedPanel = FocusPrices
		case "f2":
			m.focusedPanel = FocusPortfolio
		case "f3":
			m.focusedPanel = FocusNews
		case "f4":
			m.focusedPanel = FocusTrade
		case "f5":
			m.focusedPanel = FocusStats

		// Letter hotkeys would collide with the amount input.
		case "q":
			if m.focusedPanel != FocusTrade {
				return m, tea.Quit
			}
		case "p":
			if m.focusedPanel != FocusTrade {
				cmds = append(cmds, m.togglePause())
			}
		case "o":
			if m.focusedPanel != FocusTrade {
				cmds = append(cmds, m.acceptOpportunity())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case snapshotMsg:
		m.applySnapshot(session.Snapshot(msg))

	case refreshMsg:
		cmds = append(cmds, m.fetchSnapshot(), m.tickRefresh())

	case sessionEventMsg:
		m.handleSessionEvent(msg.event)
		cmds = append(cmds, m.listenEvents())

	case panels.TradeSubmitMsg:
		cmds = append(cmds, m.submitTrade(msg))

	case panels.TradeRejectedMsg:
		m.statusMsg = "❌ " + msg.Reason

	case statusMsg:
		m.statusMsg = string(msg)
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	// Asset selection must reach the trade panel even when unfocused.
	if sel, ok := msg.(panels.AssetSelectedMsg); ok {
		m.tradePanel, _ = m.tradePanel.Update(sel)
	}

	switch m.focusedPanel {
	case FocusPrices:
		m.pricesPanel, cmd = m.pricesPanel.Update(msg)
	case FocusPortfolio:
		m.portfolioPanel, cmd = m.portfolioPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusTrade:
		m.tradePanel, cmd = m.tradePanel.Update(msg)
	case FocusStats:
		m.statsPanel, cmd = m.statsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) applySnapshot(snap session.Snapshot) {
	m.pricesPanel.SetSnapshot(snap)
	m.portfolioPanel.SetSnapshot(snap)
	m.statsPanel.SetSnapshot(snap)
	if snap.ActiveNews != nil {
		m.newsPanel.AddNews(*snap.ActiveNews)
	}
}

func (m *Model) handleSessionEvent(ev session.Event) {
	switch e := ev.(type) {
	case session.NewsPublishedEvent:
		m.newsPanel.AddNews(e.News)
	case session.TradeExecutedEvent:
		if e.Result.Realized {
			m.statusMsg = fmt.Sprintf("✓ %s %s, P/L %s",
				e.Result.Action, e.Result.Asset, styles.FormatMoney(e.Result.Profit))
		} else {
			m.statusMsg = fmt.Sprintf("✓ %s %.4f %s @ %s",
				e.Result.Action, e.Result.Units, e.Result.Asset, styles.FormatMoney(e.Result.Price))
		}
	case session.AchievementUnlockedEvent:
		m.statusMsg = "🏆 " + e.Title
	case session.OpportunityOfferedEvent:
		m.statusMsg = "⚡ " + e.Opportunity.Title
	case session.GameOverEvent:
		m.statusMsg = fmt.Sprintf("Game over: %s (%s)",
			styles.FormatMoney(e.Result.FinalValue), styles.FormatPercent(e.Result.ReturnPercent))
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.pricesPanel.SetFocus(m.focusedPanel == FocusPrices)
	m.portfolioPanel.SetFocus(m.focusedPanel == FocusPortfolio)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)
	m.tradePanel.SetFocus(m.focusedPanel == FocusTrade)
	m.statsPanel.SetFocus(m.focusedPanel == FocusStats)

	// Layout:
	// ┌──────────────────┬──────────────────┬────────────────┐
	// │      Market      │    Portfolio     │    Session     │
	// ├──────────────────┴───────┬──────────┴────────────────┤
	// │          News            │          Trade            │
	// └──────────────────────────┴───────────────────────────┘

	leftWidth := m.width / 3
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.pricesPanel.SetSize(leftWidth, topHeight)
	m.portfolioPanel.SetSize(middleWidth, topHeight)
	m.statsPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pricesPanel.View(),
		m.portfolioPanel.View(),
		m.statsPanel.View(),
	)

	m.newsPanel.SetSize(m.width/2, bottomHeight)
	m.tradePanel.SetSize(m.width-m.width/2, bottomHeight)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.newsPanel.View(),
		m.tradePanel.View(),
	)

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, statusBar)
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F5") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" navigate"),
		styles.StatusBarKeyStyle.Render("p") + styles.StatusBarDescStyle.Render(" pause"),
		styles.StatusBarKeyStyle.Render("o") + styles.StatusBarDescStyle.Render(" opportunity"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center,
		help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3], " │ ", help[4])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

// --- session commands ---

func (m *Model) submitTrade(msg panels.TradeSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := m.sess.Trade(ctx, msg.Asset, msg.Action, msg.Amount)
		if err != nil {
			return statusMsg("❌ " + err.Error())
		}
		return statusMsg(fmt.Sprintf("✓ %s %.4f %s @ %s",
			res.Action, res.Units, res.Asset, styles.FormatMoney(res.Price)))
	}
}

func (m *Model) togglePause() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		snap, err := m.sess.TogglePause(ctx)
		if err != nil {
			return statusMsg("❌ " + err.Error())
		}
		return snapshotMsg(snap)
	}
}

func (m *Model) acceptOpportunity() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := m.sess.AcceptOpportunity(ctx)
		if err != nil {
			return statusMsg("❌ " + err.Error())
		}
		return statusMsg(fmt.Sprintf("⚡ accepted: %s %s", res.Action, res.Asset))
	}
}

func (m *Model) fetchSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		snap, err := m.sess.Snapshot(ctx)
		if err != nil {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.sess.Events()
		if !ok {
			return nil
		}
		return sessionEventMsg{event: ev}
	}
}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// snapshotMsg delivers fresh session state.
type snapshotMsg session.Snapshot

// sessionEventMsg wraps one event from the session stream.
type sessionEventMsg struct {
	event session.Event
}

// refreshMsg triggers the next snapshot poll.
type refreshMsg struct{}

// statusMsg updates the status bar.
type statusMsg string
