package history

import (
	"fmt"
	"time"

	"github.com/julianstephens/goaltrack/internal/constants"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage"
	"github.com/julianstephens/goaltrack/internal/utils"
)

// Report describes one past day. Counts are computed against the goals as
// they are now, not as they were on Date.
type Report struct {
	Date                 string        `json:"date"`
	Found                bool          `json:"found"`
	CompletedGoals       []models.Goal `json:"completed_goals"`
	ActiveGoalsCount     int           `json:"active_goals_count"`
	CompletionPercentage int           `json:"completion_percentage"`
	JournalEntry         string        `json:"journal_entry"`
}

type Viewer struct {
	store    storage.Provider
	registry *goals.Registry
}

func NewViewer(store storage.Provider) *Viewer {
	return &Viewer{
		store:    store,
		registry: goals.New(store),
	}
}

// ForDate builds the report for owner on date. A day with no check-in is
// reported with Found=false rather than an error.
func (v *Viewer) ForDate(owner, date string) (Report, error) {
	date, err := utils.ParseDate(date)
	if err != nil {
		return Report{}, apperrors.NewValidation("date", err.Error())
	}
	report := Report{Date: date, CompletedGoals: []models.Goal{}}

	checkIn, err := v.store.GetCheckIn(owner, date)
	if apperrors.IsNotFound(err) {
		return report, nil
	}
	if err != nil {
		return Report{}, apperrors.Store("load check-in", err)
	}

	all, err := v.registry.ListAll(owner)
	if err != nil {
		return Report{}, err
	}

	return build(report, checkIn, all), nil
}

// Range returns one report per day for the days ending on end, newest
// first.
func (v *Viewer) Range(owner, end string, days int) ([]Report, error) {
	endDate, err := time.Parse(constants.DateFormat, end)
	if err != nil {
		return nil, apperrors.NewValidation("date", fmt.Sprintf("invalid date format: %s (expected YYYY-MM-DD)", end))
	}
	if days < 1 {
		return nil, apperrors.NewValidation("days", "must be at least 1")
	}
	start := endDate.AddDate(0, 0, -(days - 1)).Format(constants.DateFormat)

	checkIns, err := v.store.GetCheckIns(owner, start, end)
	if err != nil {
		return nil, apperrors.Store("load check-ins", err)
	}
	byDate := make(map[string]models.CheckIn, len(checkIns))
	for _, c := range checkIns {
		byDate[c.Date] = c
	}

	var all []models.Goal
	if len(checkIns) > 0 {
		if all, err = v.registry.ListAll(owner); err != nil {
			return nil, err
		}
	}

	reports := make([]Report, 0, days)
	for i := 0; i < days; i++ {
		date := endDate.AddDate(0, 0, -i).Format(constants.DateFormat)
		report := Report{Date: date, CompletedGoals: []models.Goal{}}
		if c, ok := byDate[date]; ok {
			report = build(report, c, all)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func build(report Report, checkIn models.CheckIn, all []models.Goal) Report {
	report.Found = true
	report.JournalEntry = checkIn.JournalEntry
	report.ActiveGoalsCount = goals.CountActive(all)

	// ids with no matching goal are dropped
	done := checkIn.CompletedSet()
	for _, g := range all {
		if _, ok := done[g.ID]; ok {
			report.CompletedGoals = append(report.CompletedGoals, g)
		}
	}
	report.CompletionPercentage = utils.Percentage(len(report.CompletedGoals), report.ActiveGoalsCount)
	return report
}
