package checkins

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/goaltrack/internal/checkin"
	"github.com/julianstephens/goaltrack/internal/cli"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/tui"
	"github.com/julianstephens/goaltrack/internal/utils"
)

// TodayCmd prints the check-in dashboard for a date.
type TodayCmd struct {
	Date string `help:"Date to show (YYYY-MM-DD). Defaults to today in your timezone."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(user, c.Date)
	if err != nil {
		return err
	}

	active, err := goals.New(ctx.Store).ListActive(user.ID)
	if err != nil {
		return err
	}
	session, err := checkin.Open(ctx.Store, user.ID, date)
	if err != nil {
		return err
	}

	fmt.Print(renderDashboard(session, active, time.Now()))
	return nil
}

func renderDashboard(session *checkin.Session, active []models.Goal, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", utils.FormatDisplayDate(session.Date()))
	fmt.Fprintf(&b, "You completed %d/%d goals today\n", session.CompletedCount(), session.TotalCount(active))
	fmt.Fprintf(&b, "%s\n", tui.YearProgressBar(now, 30))

	groups := goals.Partition(active)
	for _, t := range models.GoalTypes {
		if len(groups[t]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", tui.GoalTypeStyle(t).Render(t.Title()))
		for _, g := range groups[t] {
			mark := "[ ]"
			if session.IsCompleted(g.ID) {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "  %s %s  %s\n", mark, g.Text, g.ID)
		}
	}

	if journal := session.Journal(); journal != "" {
		fmt.Fprintf(&b, "\nJournal\n%s\n", journal)
	}
	return b.String()
}

// ToggleCmd flips one goal's completion for a date.
type ToggleCmd struct {
	ID   string `arg:"" help:"Goal ID."`
	Date string `help:"Date of the check-in (YYYY-MM-DD). Defaults to today in your timezone."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(user, c.Date)
	if err != nil {
		return err
	}

	goal, err := goals.New(ctx.Store).Get(user.ID, c.ID)
	if err != nil {
		return err
	}
	if !goal.Active {
		return apperrors.NewValidation("id", fmt.Sprintf("goal %s has been deleted", goal.ID))
	}
	session, err := checkin.Open(ctx.Store, user.ID, date)
	if err != nil {
		return err
	}

	if err := session.Toggle(goal.ID); err != nil {
		cli.Warn("Check-in not saved", err)
		return nil
	}

	state := "not done"
	if session.IsCompleted(goal.ID) {
		state = "done"
	}
	fmt.Printf("Marked %q %s for %s (%d completed)\n", goal.Text, state, date, session.CompletedCount())
	return nil
}

// JournalCmd replaces the journal entry for a date.
type JournalCmd struct {
	Text string `arg:"" optional:"" help:"Journal text. Omit to print the current entry."`
	Date string `help:"Date of the check-in (YYYY-MM-DD). Defaults to today in your timezone."`
}

func (c *JournalCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(user, c.Date)
	if err != nil {
		return err
	}

	session, err := checkin.Open(ctx.Store, user.ID, date)
	if err != nil {
		return err
	}

	if c.Text == "" {
		if session.Journal() == "" {
			fmt.Printf("No journal entry for %s\n", date)
			return nil
		}
		fmt.Println(session.Journal())
		return nil
	}

	if err := session.SaveJournal(c.Text); err != nil {
		cli.Warn("Journal not saved", err)
		return nil
	}
	fmt.Printf("Journal saved for %s\n", date)
	return nil
}
