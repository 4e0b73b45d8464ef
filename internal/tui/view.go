package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/utils"
)

const progressBarWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateHistory:
		content = m.viewHistory()
	case StateJournal:
		content = m.viewJournal()
	case StateAddGoal:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), docStyle.Render(content)}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "History"} {
		if m.state == SessionState(i) || (i == 0 && m.state > StateHistory) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(utils.FormatDisplayDate(m.today)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("You completed %d/%d goals today",
		m.session.CompletedCount(), m.session.TotalCount(m.goals))))
	b.WriteString("\n")
	b.WriteString(YearProgressBar(m.now(), progressBarWidth))
	b.WriteString("\n")

	if len(m.goals) == 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("No goals yet. Press a to add one."))
		b.WriteString("\n")
	}

	var current models.GoalType
	for i, g := range m.goals {
		if g.Type != current {
			current = g.Type
			b.WriteString("\n")
			b.WriteString(GoalTypeStyle(g.Type).Render(g.Type.Title()))
			b.WriteString("\n")
		}

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		line := "[ ] " + g.Text
		if m.session.IsCompleted(g.ID) {
			line = doneStyle.Render("[x] " + g.Text)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Journal"))
	b.WriteString("\n")
	if journal := m.session.Journal(); journal != "" {
		b.WriteString(journal)
	} else {
		b.WriteString(mutedStyle.Render("Nothing written yet. Press e to write."))
	}
	return b.String()
}

func (m Model) viewHistory() string {
	var b strings.Builder
	r := m.historyReport

	b.WriteString(titleStyle.Render(utils.FormatDisplayDate(m.historyDate)))
	b.WriteString("\n\n")

	if !r.Found {
		b.WriteString(mutedStyle.Render("No data for this date."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Completion: %d%% (%d of %d active goals)\n\n",
		r.CompletionPercentage, len(r.CompletedGoals), r.ActiveGoalsCount))

	b.WriteString(titleStyle.Render("Completed goals"))
	b.WriteString("\n")
	if len(r.CompletedGoals) == 0 {
		b.WriteString(mutedStyle.Render("None"))
		b.WriteString("\n")
	}
	for _, g := range r.CompletedGoals {
		b.WriteString(fmt.Sprintf("  ✓ %s %s\n", g.Text, mutedStyle.Render("("+string(g.Type)+")")))
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Journal"))
	b.WriteString("\n")
	if r.JournalEntry == "" {
		b.WriteString(mutedStyle.Render("No journal entry"))
	} else {
		b.WriteString(r.JournalEntry)
	}
	return b.String()
}

func (m Model) viewJournal() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Journal for "+utils.FormatDisplayDate(m.today)),
		"",
		m.journal.View(),
		"",
		mutedStyle.Render("ctrl+s save • esc cancel"),
	)
}

func (m Model) viewConfirmDelete() string {
	text := m.goalToDelete
	for _, g := range m.goals {
		if g.ID == m.goalToDelete {
			text = g.Text
			break
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render(fmt.Sprintf("Delete %q?", text)),
		"",
		"Past check-ins keep their record of it.",
		"",
		"[y] Yes   [n] No",
	)
}

// YearProgressBar renders how much of t's year has elapsed.
func YearProgressBar(t time.Time, width int) string {
	pct := utils.YearProgress(t, t.Year())
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%d %s %.2f%%", t.Year(), bar, pct)
}
