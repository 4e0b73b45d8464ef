package checkins

import (
	"fmt"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/history"
	"github.com/julianstephens/goaltrack/internal/utils"
)

type HistoryCmd struct {
	Date string `arg:"" optional:"" help:"Date to look up (YYYY-MM-DD). Defaults to today in your timezone."`
	Days int    `help:"List completion for this many days up to the date instead." default:"0"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(user, c.Date)
	if err != nil {
		return err
	}

	viewer := history.NewViewer(ctx.Store)
	if c.Days > 0 {
		reports, err := viewer.Range(user.ID, date, c.Days)
		if err != nil {
			return err
		}
		for _, r := range reports {
			if !r.Found {
				fmt.Printf("%s  no data\n", r.Date)
				continue
			}
			fmt.Printf("%s  %3d%%  (%d of %d)\n", r.Date, r.CompletionPercentage, len(r.CompletedGoals), r.ActiveGoalsCount)
		}
		return nil
	}

	r, err := viewer.ForDate(user.ID, date)
	if err != nil {
		return err
	}

	fmt.Println(utils.FormatDisplayDate(r.Date))
	if !r.Found {
		fmt.Println("No data for this date.")
		return nil
	}

	fmt.Printf("Completion: %d%% (%d of %d active goals)\n", r.CompletionPercentage, len(r.CompletedGoals), r.ActiveGoalsCount)
	fmt.Println("\nCompleted goals")
	if len(r.CompletedGoals) == 0 {
		fmt.Println("  None")
	}
	for _, g := range r.CompletedGoals {
		fmt.Printf("  ✓ %s (%s)\n", g.Text, g.Type)
	}

	fmt.Println("\nJournal")
	if r.JournalEntry == "" {
		fmt.Println("  No journal entry")
	} else {
		fmt.Println(r.JournalEntry)
	}
	return nil
}
