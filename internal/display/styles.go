package display

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the report.
var (
	SuccessColor = lipgloss.Color("42")
	FailureColor = lipgloss.Color("196")
	WarningColor = lipgloss.Color("214")
	AccentColor  = lipgloss.Color("86")
	MutedColor   = lipgloss.Color("245")
)

// Styles for the report.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SuccessColor)

	FailureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FailureColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(WarningColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)
)
