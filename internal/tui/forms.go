package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/utils"
)

type GoalFormModel struct {
	Text string
	Type models.GoalType
}

// NewGoalForm creates a form for adding a goal.
func NewGoalForm(fm *GoalFormModel) *huh.Form {
	if fm.Type == "" {
		fm.Type = models.GoalDaily
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal").
				Placeholder("e.g. Read 20 pages").
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("goal text cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.GoalType]().
				Title("Type").
				Options(
					huh.NewOption("Daily", models.GoalDaily),
					huh.NewOption("Weekly", models.GoalWeekly),
					huh.NewOption("Monthly", models.GoalMonthly),
				).
				Value(&fm.Type),
		),
	).WithTheme(huh.ThemeDracula())
}

type SettingsFormModel struct {
	EmailTime string
	Timezone  string
	Email     string
}

// NewSettingsForm creates a form for editing reminder settings.
func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Description("Where reminders are sent").
				Value(&fm.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Value(&fm.EmailTime).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("time must be in HH:MM format")
					}
					return nil
				}),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as America/New_York, or Local").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(strings.TrimSpace(s)) {
						return fmt.Errorf("unknown timezone %q", s)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
