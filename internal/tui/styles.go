package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/goaltrack/internal/models"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	// same palette as the reminder emails
	goalTypeStyles = map[models.GoalType]lipgloss.Style{
		models.GoalDaily:   lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Bold(true),
		models.GoalWeekly:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true),
		models.GoalMonthly: lipgloss.NewStyle().Foreground(lipgloss.Color("#a855f7")).Bold(true),
	}
)

// GoalTypeStyle returns the heading style for a goal type.
func GoalTypeStyle(t models.GoalType) lipgloss.Style {
	if s, ok := goalTypeStyles[t]; ok {
		return s
	}
	return titleStyle
}
