package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/portfolio"
	"github.com/zappabad/bullrun/internal/session"
	"github.com/zappabad/bullrun/tui/styles"
)

// PortfolioPanel displays cash, total value, holdings, and open shorts.
type PortfolioPanel struct {
	cash     float64
	value    float64
	prices   map[catalog.AssetID]float64
	holdings map[catalog.AssetID]portfolio.Holding
	shorts   map[catalog.AssetID]portfolio.ShortPosition
	focused  bool
	width    int
	height   int
}

// NewPortfolioPanel creates a new portfolio panel.
func NewPortfolioPanel() *PortfolioPanel {
	return &PortfolioPanel{}
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.LabelStyle.Render("Cash  "))
	content.WriteString(styles.CashStyle.Render(styles.FormatMoney(p.cash)))
	content.WriteString("   ")
	content.WriteString(styles.LabelStyle.Render("Value "))
	content.WriteString(styles.CashStyle.Render(styles.FormatMoney(p.value)))
	content.WriteString("\n\n")

	content.WriteString(styles.HeaderStyle.Render(
		fmt.Sprintf("%-8s %10s %12s %9s", "Asset", "Qty", "Basis", "P/L")))
	content.WriteString("\n")

	held := 0
	for _, id := range catalog.Assets {
		h, ok := p.holdings[id]
		if !ok || h.Quantity <= 0 {
			continue
		}
		held++
		pl := h.Quantity*p.prices[id] - h.CostBasis
		plStr := styles.FormatMoney(pl)
		plStyled := styles.MutedStyle.Render(plStr)
		if pl > 0 {
			plStyled = styles.UpStyle.Render(plStr)
		} else if pl < 0 {
			plStyled = styles.DownStyle.Render(plStr)
		}
		content.WriteString(fmt.Sprintf("%-8s %10.4f %12s %s\n",
			catalog.AssetTable[id].Name, h.Quantity, styles.FormatMoney(h.CostBasis), plStyled))
	}
	if held == 0 {
		content.WriteString(styles.MutedStyle.Render("no holdings"))
		content.WriteString("\n")
	}

	if shorts := p.renderShorts(); shorts != "" {
		content.WriteString("\n")
		content.WriteString(shorts)
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💼 Portfolio", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *PortfolioPanel) renderShorts() string {
	var content strings.Builder
	open := 0
	for _, id := range catalog.Assets {
		sp, ok := p.shorts[id]
		if !ok || !sp.Active {
			continue
		}
		if open == 0 {
			content.WriteString(styles.HeaderStyle.Render(
				fmt.Sprintf("%-8s %12s %12s %9s", "Short", "Entry", "Notional", "P/L")))
			content.WriteString("\n")
		}
		open++
		pl := shortPL(sp, p.prices[id])
		plStr := styles.FormatMoney(pl)
		plStyled := styles.MutedStyle.Render(plStr)
		if pl > 0 {
			plStyled = styles.UpStyle.Render(plStr)
		} else if pl < 0 {
			plStyled = styles.DownStyle.Render(plStr)
		}
		content.WriteString(fmt.Sprintf("%-8s %12s %12s %s\n",
			catalog.AssetTable[id].Name, styles.FormatMoney(sp.EntryPrice),
			styles.FormatMoney(sp.Value), plStyled))
	}
	if open == 0 {
		return ""
	}
	return content.String()
}

func shortPL(sp portfolio.ShortPosition, price float64) float64 {
	if sp.EntryPrice == 0 {
		return 0
	}
	move := (sp.EntryPrice - price) / sp.EntryPrice
	return sp.Value * move * portfolio.ShortLeverage
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot refreshes the panel from session state.
func (p *PortfolioPanel) SetSnapshot(snap session.Snapshot) {
	p.cash = snap.Cash
	p.value = snap.Value
	p.prices = snap.Prices
	p.holdings = snap.Holdings
	p.shorts = snap.Shorts
}
