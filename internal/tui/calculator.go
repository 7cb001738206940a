// Package tui is the terminal calculator built on bubbletea.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazypower/widgetry/internal/calc"
)

const displayWidth = 22

const helpText = "0-9 . + - * / enter · m MR · ctrl+p M+ · alt+m M- · M MC · esc AC · tab compact · ctrl+l clear history · q quit"

// Model is the bubbletea model wrapping a calc.Calculator.
type Model struct {
	ctx    context.Context
	calc   *calc.Calculator
	styles Styles
	width  int
}

// New returns a model over c. The calculator should already be loaded.
func New(ctx context.Context, c *calc.Calculator) Model {
	return Model{ctx: ctx, calc: c, styles: DefaultStyles()}
}

// Calculator returns the wrapped calculator.
func (m Model) Calculator() *calc.Calculator {
	return m.calc
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			m.calc.SetCompact(m.ctx, !m.calc.Compact())
			return m, nil
		case tea.KeyCtrlL:
			m.calc.ClearHistory(m.ctx)
			return m, nil
		}
		if msg.Type == tea.KeyRunes && !msg.Alt && string(msg.Runes) == "q" {
			return m, tea.Quit
		}
		if ev, ok := KeyEvent(msg); ok {
			m.calc.PressKey(m.ctx, ev)
		}
	}
	return m, nil
}

// KeyEvent converts a terminal key press to a calculator key event.
// Terminals deliver ctrl+m as enter, so ctrl+p stands in for M+.
func KeyEvent(msg tea.KeyMsg) (calc.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return calc.KeyEvent{Key: "Enter"}, true
	case tea.KeyBackspace:
		return calc.KeyEvent{Key: "Backspace"}, true
	case tea.KeyDelete:
		return calc.KeyEvent{Key: "Delete"}, true
	case tea.KeyEsc:
		return calc.KeyEvent{Key: "Escape"}, true
	case tea.KeyCtrlP:
		return calc.KeyEvent{Key: "m", Ctrl: true}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return calc.KeyEvent{}, false
		}
		r := msg.Runes[0]
		return calc.KeyEvent{
			Key:   string(r),
			Alt:   msg.Alt,
			Shift: r >= 'A' && r <= 'Z',
		}, true
	}
	return calc.KeyEvent{}, false
}

func (m Model) View() string {
	snap := m.calc.Snapshot()
	st := m.styles

	var mem string
	if snap.MemorySet {
		mem = st.Memory.Render("M")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, st.Title.Render("widgetry calc"), "  ", mem)

	display := snap.Display
	if display == calc.ErrorDisplay {
		display = st.Error.Render(display)
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		header,
		st.Pending.Render(snap.Pending),
		st.Display.Render(display),
	)

	body := left
	if !snap.Compact {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, st.History.Render(m.historyView(snap.History)))
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	help := st.Help
	if m.width > 0 {
		help = help.Width(m.width)
	}
	b.WriteString(help.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

func (m Model) historyView(entries []string) string {
	if len(entries) == 0 {
		return m.styles.Entry.Render("no history")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = m.styles.Entry.Render(e)
	}
	return strings.Join(lines, "\n")
}
