package ui

import "github.com/charmbracelet/lipgloss"

// Help template styles. Plain ANSI slots, so the palette follows
// whatever theme the user's terminal runs.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1).Foreground(lipgloss.Color("6"))
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
