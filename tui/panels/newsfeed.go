package panels

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/bullrun/internal/news"
	"github.com/zappabad/bullrun/tui/styles"
)

// NewsPanel displays the active news event and a tape of past headlines.
type NewsPanel struct {
	items    []news.Event
	focused  bool
	width    int
	height   int
	maxItems int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{
		maxItems: 50,
	}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if len(p.items) == 0 {
		content.WriteString(styles.MutedStyle.Render("No news yet"))
	} else {
		// Latest event gets the full treatment with its trading tip.
		latest := p.items[len(p.items)-1]
		headlineStyle := styles.NewsNormalStyle
		if latest.Crash {
			headlineStyle = styles.NewsCrashStyle
		}
		content.WriteString(headlineStyle.Render(latest.Title))
		content.WriteString("\n")
		content.WriteString(wrap(latest.Message, p.width-4))
		content.WriteString("\n")
		content.WriteString(styles.NewsTipStyle.Render("💡 " + latest.Tip))

		// Older headlines as a one-line tape.
		visible := p.height - 8
		if visible > 0 && len(p.items) > 1 {
			content.WriteString("\n\n")
			start := len(p.items) - 1 - visible
			if start < 0 {
				start = 0
			}
			for i := len(p.items) - 2; i >= start; i-- {
				item := p.items[i]
				t := time.Unix(0, item.Time)
				line := fmt.Sprintf("%s %s",
					styles.TimeStyle.Render(t.Format("15:04:05")),
					styles.MutedStyle.Render(truncate(item.Title, p.width-14)))
				content.WriteString(line)
				if i > start {
					content.WriteString("\n")
				}
			}
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 News", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// AddNews appends an event to the tape.
func (p *NewsPanel) AddNews(item news.Event) {
	if n := len(p.items); n > 0 && p.items[n-1].Time == item.Time && p.items[n-1].Title == item.Title {
		return
	}
	p.items = append(p.items, item)
	if len(p.items) > p.maxItems {
		p.items = p.items[len(p.items)-p.maxItems:]
	}
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func wrap(s string, width int) string {
	if width < 10 {
		return s
	}
	words := strings.Fields(s)
	var lines []string
	var line string
	for _, w := range words {
		if line == "" {
			line = w
			continue
		}
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
