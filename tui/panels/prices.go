package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/engine"
	"github.com/zappabad/bullrun/internal/session"
	"github.com/zappabad/bullrun/tui/styles"
)

// PricesPanel displays current prices, last change, and trend for every
// asset. The selected row feeds the trade panel.
type PricesPanel struct {
	assets        []catalog.AssetID
	prices        map[catalog.AssetID]float64
	trends        map[catalog.AssetID]engine.Trend
	history       map[catalog.AssetID][]float64
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewPricesPanel creates a new prices panel.
func NewPricesPanel() *PricesPanel {
	return &PricesPanel{
		assets:  catalog.Assets,
		prices:  make(map[catalog.AssetID]float64),
		trends:  make(map[catalog.AssetID]engine.Trend),
		history: make(map[catalog.AssetID][]float64),
	}
}

// Init initializes the panel.
func (p *PricesPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PricesPanel) Update(msg tea.Msg) (*PricesPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				return p, p.selectCmd()
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.assets)-1 {
				p.selectedIndex++
				return p, p.selectCmd()
			}
		}
	}
	return p, nil
}

func (p *PricesPanel) selectCmd() tea.Cmd {
	asset := p.assets[p.selectedIndex]
	return func() tea.Msg {
		return AssetSelectedMsg{Asset: asset}
	}
}

// View renders the panel.
func (p *PricesPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-8s %12s %9s %-6s", "Asset", "Price", "Change", "Trend")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, id := range p.assets {
		def := catalog.AssetTable[id]
		price := p.prices[id]
		change := lastChange(p.history[id])

		changeStr := styles.FormatPercent(change)
		changeStyled := styles.MutedStyle.Render(changeStr)
		if change > 0 {
			changeStyled = styles.UpStyle.Render(changeStr)
		} else if change < 0 {
			changeStyled = styles.DownStyle.Render(changeStr)
		}

		row := fmt.Sprintf("%-8s %12s %s %-6s",
			def.Name, styles.FormatMoney(price), changeStyled, trendArrows(p.trends[id]))

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < len(p.assets)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Market", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *PricesPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PricesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot refreshes prices, trends, and history.
func (p *PricesPanel) SetSnapshot(snap session.Snapshot) {
	p.prices = snap.Prices
	p.trends = snap.Trends
	p.history = snap.History
}

// SelectedAsset returns the currently selected asset.
func (p *PricesPanel) SelectedAsset() catalog.AssetID {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.assets) {
		return p.assets[p.selectedIndex]
	}
	return catalog.Assets[0]
}

func lastChange(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	prev := history[len(history)-2]
	if prev == 0 {
		return 0
	}
	return (history[len(history)-1] - prev) / prev * 100
}

func trendArrows(t engine.Trend) string {
	if t.Strength <= 0 {
		return "-"
	}
	arrow := "↑"
	style := styles.UpStyle
	if t.Direction == engine.TrendDown {
		arrow = "↓"
		style = styles.DownStyle
	}
	return style.Render(strings.Repeat(arrow, t.Strength))
}

// AssetSelectedMsg is sent when the selected asset changes.
type AssetSelectedMsg struct {
	Asset catalog.AssetID
}
