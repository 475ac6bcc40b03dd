package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#7C3AED")
	okColor     = lipgloss.Color("#10B981")
	errorColor  = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#6B7280")
	brightColor = lipgloss.Color("#F3F4F6")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Padding(0, 1)

	contextStyle = lipgloss.NewStyle().
			Foreground(okColor).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(okColor).
			Padding(0, 1)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(16)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(brightColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 2)
)
