package goals

import (
	"fmt"
	"strings"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/tui"
)

type GoalAddCmd struct {
	Text        string `arg:"" optional:"" help:"Goal text."`
	Type        string `help:"Goal type: daily, weekly or monthly." enum:"daily,weekly,monthly" default:"daily"`
	Interactive bool   `short:"i" help:"Fill in the goal with a form."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	text := c.Text
	goalType := models.GoalType(c.Type)
	if c.Interactive || text == "" {
		fm := &tui.GoalFormModel{Text: text, Type: goalType}
		if err := tui.NewGoalForm(fm).Run(); err != nil {
			return err
		}
		text, goalType = fm.Text, fm.Type
	}

	goal, err := goals.New(ctx.Store).Create(user.ID, text, goalType)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s goal: %s (id: %s)\n", goal.Type, goal.Text, goal.ID)
	return nil
}

type GoalListCmd struct {
	All bool `help:"Include deactivated goals."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	registry := goals.New(ctx.Store)
	list, err := registry.ListActive(user.ID)
	if c.All {
		list, err = registry.ListAll(user.ID)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No goals yet. Add one with 'goaltrack goal add'.")
		return nil
	}

	fmt.Printf("%-36s %-8s %-8s %-10s %s\n", "ID", "Type", "Status", "Created", "Goal")
	fmt.Println(strings.Repeat("-", 100))
	for _, g := range list {
		fmt.Printf("%-36s %-8s %-8s %-10s %s\n", g.ID, g.Type, g.Status(), g.CreatedAt.Local().Format("2006-01-02"), g.Text)
	}
	return nil
}

type GoalRenameCmd struct {
	ID   string `arg:"" help:"Goal ID."`
	Text string `arg:"" help:"New goal text."`
}

func (c *GoalRenameCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	goal, err := goals.New(ctx.Store).Rename(user.ID, c.ID, c.Text)
	if err != nil {
		return err
	}
	fmt.Printf("Renamed goal %s: %s\n", goal.ID, goal.Text)
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := goals.New(ctx.Store).Deactivate(user.ID, c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted goal %s. Past check-ins still list it in history.\n", c.ID)
	return nil
}
