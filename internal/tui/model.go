package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/goaltrack/internal/checkin"
	"github.com/julianstephens/goaltrack/internal/constants"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/history"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHistory
	StateJournal
	StateAddGoal
	StateConfirmDelete
)

type Model struct {
	store    storage.Provider
	registry *goals.Registry
	viewer   *history.Viewer
	user     models.User
	today    string
	now      func() time.Time

	session *checkin.Session
	goals   []models.Goal // active goals in display order
	cursor  int

	state   SessionState
	keys    KeyMap
	help    help.Model
	journal textarea.Model

	form     *huh.Form
	goalForm *GoalFormModel

	historyDate   string
	historyReport history.Report

	goalToDelete string
	status       string
	quitting     bool
	width        int
	height       int
}

// NewModel opens today's check-in for user. today is the user's local date.
func NewModel(store storage.Provider, user models.User, today string) (Model, error) {
	session, err := checkin.Open(store, user.ID, today)
	if err != nil {
		return Model{}, err
	}

	ta := textarea.New()
	ta.Placeholder = "How did today go?"
	ta.ShowLineNumbers = false
	ta.SetValue(session.Journal())

	m := Model{
		store:       store,
		registry:    goals.New(store),
		viewer:      history.NewViewer(store),
		user:        user,
		today:       session.Date(),
		now:         time.Now,
		session:     session,
		state:       StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		journal:     ta,
		historyDate: shiftDate(session.Date(), -1),
	}
	if err := m.reloadGoals(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reloadGoals refreshes the active goal list, flattened in type order.
func (m *Model) reloadGoals() error {
	active, err := m.registry.ListActive(m.user.ID)
	if err != nil {
		return err
	}
	groups := goals.Partition(active)
	ordered := make([]models.Goal, 0, len(active))
	for _, t := range models.GoalTypes {
		ordered = append(ordered, groups[t]...)
	}
	m.goals = ordered
	if m.cursor >= len(m.goals) {
		m.cursor = max(0, len(m.goals)-1)
	}
	return nil
}

func (m *Model) loadHistory() {
	report, err := m.viewer.ForDate(m.user.ID, m.historyDate)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.historyReport = report
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(constants.DateFormat)
}
