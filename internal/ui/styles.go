package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/squillaiugis/todo-app/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	// Task rows
	StyleDone       = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)
	StyleCursor     = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleTabActive  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleTabNormal  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleHelp       = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePageMarker = lipgloss.NewStyle().Foreground(ColorCyan)
)

var priorityStyles = map[models.TaskPriority]lipgloss.Style{
	models.PriorityHigh:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
	models.PriorityMedium: lipgloss.NewStyle().Foreground(ColorWarning),
	models.PriorityLow:    lipgloss.NewStyle().Foreground(ColorSuccess),
}

// PriorityStyle returns the badge style for a priority.
func PriorityStyle(p models.TaskPriority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return StyleText
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
