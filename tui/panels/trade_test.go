package panels

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/bullrun/internal/catalog"
	"github.com/zappabad/bullrun/internal/portfolio"
)

func submitTrade(t *testing.T, p *TradePanel) tea.Msg {
	t.Helper()
	p.SetFocus(true)
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	return cmd()
}

func selectAction(t *testing.T, p *TradePanel, action portfolio.TradeAction) {
	t.Helper()
	for i, a := range tradeActions {
		if a == action {
			p.actionIndex = i
			return
		}
	}
	t.Fatalf("action %s not offered by the panel", action)
}

func TestTradePanelSubmitsDollarBuy(t *testing.T) {
	p := NewTradePanel()
	p.amountInput.SetValue("1000")

	msg, ok := submitTrade(t, p).(TradeSubmitMsg)
	if !ok {
		t.Fatalf("got %T, want TradeSubmitMsg", msg)
	}
	if msg.Action != portfolio.ActionBuy {
		t.Errorf("action: got %s, want %s", msg.Action, portfolio.ActionBuy)
	}
	if msg.Asset != catalog.Assets[0] {
		t.Errorf("asset: got %s, want %s", msg.Asset, catalog.Assets[0])
	}
	if msg.Amount.Kind != portfolio.AmountDollars || msg.Amount.Value != 1000 {
		t.Errorf("amount: got %s %v, want DOLLARS 1000", msg.Amount.Kind, msg.Amount.Value)
	}
}

func TestTradePanelCoverDefaultsToFullPosition(t *testing.T) {
	p := NewTradePanel()
	selectAction(t, p, portfolio.ActionCover)

	msg, ok := submitTrade(t, p).(TradeSubmitMsg)
	if !ok {
		t.Fatalf("got %T, want TradeSubmitMsg", msg)
	}
	if msg.Amount.Kind != portfolio.AmountFraction || msg.Amount.Value != 1 {
		t.Errorf("amount: got %s %v, want FRACTION 1", msg.Amount.Kind, msg.Amount.Value)
	}
}

func TestTradePanelCoverTakesPercentOfPosition(t *testing.T) {
	p := NewTradePanel()
	selectAction(t, p, portfolio.ActionCover)
	p.amountInput.SetValue("40")

	msg, ok := submitTrade(t, p).(TradeSubmitMsg)
	if !ok {
		t.Fatalf("got %T, want TradeSubmitMsg", msg)
	}
	if msg.Amount.Kind != portfolio.AmountFraction || msg.Amount.Value != 0.4 {
		t.Errorf("amount: got %s %v, want FRACTION 0.4", msg.Amount.Kind, msg.Amount.Value)
	}
}

func TestTradePanelCoverRejectsOverHundredPercent(t *testing.T) {
	p := NewTradePanel()
	selectAction(t, p, portfolio.ActionCover)
	p.amountInput.SetValue("250")

	if _, ok := submitTrade(t, p).(TradeRejectedMsg); !ok {
		t.Error("expected rejection for cover above 100%")
	}
}

func TestTradePanelRejectsUnparseableAmount(t *testing.T) {
	p := NewTradePanel()
	p.amountInput.SetValue("lots")

	if _, ok := submitTrade(t, p).(TradeRejectedMsg); !ok {
		t.Error("expected rejection for a non-numeric amount")
	}
}
