package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	muted  = lipgloss.AdaptiveColor{Light: "#6a737d", Dark: "#7d8590"}
	danger = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles used by the calculator view.
type Styles struct {
	Title   lipgloss.Style
	Display lipgloss.Style
	Error   lipgloss.Style
	Pending lipgloss.Style
	Memory  lipgloss.Style
	History lipgloss.Style
	Entry   lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the standard calculator styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Display: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(displayWidth).
			Align(lipgloss.Right).
			Bold(true),
		Error:   lipgloss.NewStyle().Foreground(danger).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(muted).Width(displayWidth + 4).Align(lipgloss.Right),
		Memory:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		History: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(muted).
			PaddingLeft(1).
			MarginLeft(2),
		Entry: lipgloss.NewStyle().Foreground(muted),
		Help:  lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
