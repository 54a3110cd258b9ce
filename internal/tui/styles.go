package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	muted  = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#616161"}

	activeTabStyle = lipgloss.NewStyle().
			Foreground(accent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(accent).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(muted).
				Border(lipgloss.HiddenBorder(), false, false, true, false).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
