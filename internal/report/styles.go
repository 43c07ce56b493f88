package report

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("#8BC34A")
	Warning = lipgloss.Color("#e53935")
	Muted   = lipgloss.Color("#8a94a6")
	Border  = lipgloss.Color("#2a3850")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	aboveStyle  = cellStyle.Foreground(Accent)
	belowStyle  = cellStyle.Foreground(Warning)
	mutedStyle  = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	ballStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(Accent)
	starStyle   = ballStyle.BorderForeground(lipgloss.Color("#f5c542"))
)
