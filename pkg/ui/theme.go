package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the lipgloss styles shared by the views.
type Theme struct {
	Header       lipgloss.Style
	MenuLabel    lipgloss.Style
	Item         lipgloss.Style
	ItemCurrent  lipgloss.Style
	ItemProgress lipgloss.Style
	Sidebar      lipgloss.Style
	Page         lipgloss.Style
	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	FooterNav    lipgloss.Style
	TaskDone     lipgloss.Style
	TaskWaiting  lipgloss.Style
	TaskBlocked  lipgloss.Style
}

// DefaultTheme returns the standard color scheme.
func DefaultTheme() Theme {
	return Theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#76b900"}),
		MenuLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#57606a", Dark: "#8b949e"}).
			MarginTop(1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#24292f", Dark: "#c9d1d9"}),
		ItemCurrent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}),
		ItemProgress: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#57606a", Dark: "#8b949e"}),
		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#d0d7de", Dark: "#30363d"}).
			PaddingRight(1),
		Page: lipgloss.NewStyle().
			PaddingLeft(2),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#57606a", Dark: "#8b949e"}),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}),
		FooterNav: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}),
		TaskDone: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}),
		TaskWaiting: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}),
		TaskBlocked: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8c959f", Dark: "#6e7681"}),
	}
}
