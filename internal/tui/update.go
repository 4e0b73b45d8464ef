package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/goaltrack/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.journal.SetWidth(max(20, msg.Width-6))
		m.journal.SetHeight(max(3, msg.Height/3))
		return m, nil
	}

	switch m.state {
	case StateJournal:
		return m.updateJournal(msg)
	case StateAddGoal:
		return m.updateAddGoal(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		if m.state == StateToday {
			m.state = StateHistory
			m.loadHistory()
		} else {
			m.state = StateToday
		}
		return m, nil
	}

	if m.state == StateHistory {
		return m.updateHistory(keyMsg)
	}
	return m.updateToday(keyMsg)
}

func (m Model) updateToday(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.goals)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if len(m.goals) == 0 {
			return m, nil
		}
		m.status = ""
		if err := m.session.Toggle(m.goals[m.cursor].ID); err != nil {
			m.status = "Not saved: " + err.Error()
		}
	case key.Matches(msg, m.keys.Journal):
		m.state = StateJournal
		m.journal.SetValue(m.session.Journal())
		return m, m.journal.Focus()
	case key.Matches(msg, m.keys.Add):
		m.goalForm = &GoalFormModel{}
		m.form = NewGoalForm(m.goalForm)
		m.state = StateAddGoal
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		if len(m.goals) == 0 {
			return m, nil
		}
		m.goalToDelete = m.goals[m.cursor].ID
		m.state = StateConfirmDelete
	}
	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.historyDate = shiftDate(m.historyDate, -1)
	case key.Matches(msg, m.keys.Right):
		if next := shiftDate(m.historyDate, 1); next <= m.today {
			m.historyDate = next
		}
	case key.Matches(msg, m.keys.Today):
		m.historyDate = m.today
	default:
		return m, nil
	}
	m.loadHistory()
	return m, nil
}

func (m Model) updateJournal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			m.journal.Blur()
			m.journal.SetValue(m.session.Journal())
			m.state = StateToday
			return m, nil
		case key.Matches(keyMsg, m.keys.Save):
			m.journal.Blur()
			m.status = "Journal saved"
			if err := m.session.SaveJournal(m.journal.Value()); err != nil {
				m.status = "Not saved: " + err.Error()
			}
			m.state = StateToday
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.journal, cmd = m.journal.Update(msg)
	return m, cmd
}

func (m Model) updateAddGoal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateToday
		if _, err := m.registry.Create(m.user.ID, m.goalForm.Text, m.goalForm.Type); err != nil {
			m.status = err.Error()
			return m, nil
		}
		if err := m.reloadGoals(); err != nil {
			logger.Warn("Failed to reload goals", "error", err)
		}
		m.status = "Goal added"
		return m, nil
	case huh.StateAborted:
		m.state = StateToday
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if err := m.registry.Deactivate(m.user.ID, m.goalToDelete); err != nil {
			m.status = err.Error()
		} else if err := m.reloadGoals(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "Goal deleted"
		}
		m.goalToDelete = ""
		m.state = StateToday
	case "n", "N", "esc", "q":
		m.goalToDelete = ""
		m.state = StateToday
	}
	return m, nil
}
