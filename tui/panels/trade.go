package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/portfolio"
	"github.com/zappabad/bullrun/tui/styles"
)

// amountMode selects how the typed number is interpreted.
type amountMode int

const (
	modeDollars amountMode = iota
	modeFraction
	modeUnits
)

func (m amountMode) String() string {
	switch m {
	case modeDollars:
		return "dollars"
	case modeFraction:
		return "% of cash"
	case modeUnits:
		return "units"
	default:
		return "?"
	}
}

var tradeActions = []portfolio.TradeAction{
	portfolio.ActionBuy,
	portfolio.ActionSell,
	portfolio.ActionShort,
	portfolio.ActionCover,
}

// TradePanel is the order entry form: asset comes from the prices panel
// selection, action cycles with left/right, amount is typed.
type TradePanel struct {
	asset       catalog.AssetID
	actionIndex int
	mode        amountMode
	amountInput textinput.Model
	focused     bool
	width       int
	height      int
}

// NewTradePanel creates a new trade entry panel.
func NewTradePanel() *TradePanel {
	amountInput := textinput.New()
	amountInput.Placeholder = "1000"
	amountInput.CharLimit = 12
	amountInput.Width = 12

	return &TradePanel{
		asset:       catalog.Assets[0],
		amountInput: amountInput,
	}
}

// Init initializes the panel.
func (p *TradePanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *TradePanel) Update(msg tea.Msg) (*TradePanel, tea.Cmd) {
	switch msg := msg.(type) {
	case AssetSelectedMsg:
		p.asset = msg.Asset
		return p, nil

	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch msg.String() {
		case "left":
			p.actionIndex--
			if p.actionIndex < 0 {
				p.actionIndex = len(tradeActions) - 1
			}
			return p, nil
		case "right":
			p.actionIndex = (p.actionIndex + 1) % len(tradeActions)
			return p, nil
		case "ctrl+a":
			p.mode = (p.mode + 1) % 3
			return p, nil
		case "enter":
			return p, p.submit()
		}
	}

	var cmd tea.Cmd
	p.amountInput, cmd = p.amountInput.Update(msg)
	return p, cmd
}

func (p *TradePanel) submit() tea.Cmd {
	asset := p.asset
	action := tradeActions[p.actionIndex]
	raw := strings.TrimSpace(p.amountInput.Value())

	// Cover sizes against the open short, always as a percentage of the
	// position; a blank amount covers all of it.
	if action == portfolio.ActionCover {
		value := 100.0
		if raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed <= 0 || parsed > 100 {
				return func() tea.Msg {
					return TradeRejectedMsg{Reason: "cover takes a percent of the position (1-100)"}
				}
			}
			value = parsed
		}
		p.amountInput.Reset()
		amount := portfolio.Fraction(value / 100)
		return func() tea.Msg {
			return TradeSubmitMsg{Asset: asset, Action: action, Amount: amount}
		}
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return func() tea.Msg {
			return TradeRejectedMsg{Reason: "enter a positive amount"}
		}
	}

	var amount portfolio.AmountSpec
	switch p.mode {
	case modeFraction:
		amount = portfolio.Fraction(value / 100)
	case modeUnits:
		amount = portfolio.Units(value)
	default:
		amount = portfolio.Dollars(value)
	}

	p.amountInput.Reset()
	return func() tea.Msg {
		return TradeSubmitMsg{Asset: asset, Action: action, Amount: amount}
	}
}

// View renders the panel.
func (p *TradePanel) View() string {
	var content strings.Builder

	content.WriteString(styles.LabelStyle.Render("Asset  "))
	content.WriteString(styles.RowStyle.Render(catalog.AssetTable[p.asset].Name))
	content.WriteString("\n")

	content.WriteString(styles.LabelStyle.Render("Action "))
	for i, action := range tradeActions {
		label := action.String()
		var styled string
		switch {
		case i == p.actionIndex && (action == portfolio.ActionBuy || action == portfolio.ActionCover):
			styled = styles.ActionBuyStyle.Render("[" + label + "]")
		case i == p.actionIndex:
			styled = styles.ActionSellStyle.Render("[" + label + "]")
		default:
			styled = styles.MutedStyle.Render(" " + label + " ")
		}
		content.WriteString(styled)
		content.WriteString(" ")
	}
	content.WriteString("\n")

	content.WriteString(styles.LabelStyle.Render("Amount "))
	content.WriteString(p.amountInput.View())
	if tradeActions[p.actionIndex] == portfolio.ActionCover {
		content.WriteString(styles.MutedStyle.Render("  (% of position, blank = all)"))
	} else {
		content.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  (%s, ctrl+a to switch)", p.mode)))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🛒 Trade", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel and its input.
func (p *TradePanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.amountInput.Focus()
	} else {
		p.amountInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *TradePanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// TradeSubmitMsg requests a trade from the session.
type TradeSubmitMsg struct {
	Asset  catalog.AssetID
	Action portfolio.TradeAction
	Amount portfolio.AmountSpec
}

// TradeRejectedMsg reports a locally invalid trade form.
type TradeRejectedMsg struct {
	Reason string
}
