package reminders

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/notifier"
	"github.com/julianstephens/goaltrack/internal/reminder"
)

// RemindCmd runs one reminder batch for every user, the same run the
// trigger server performs.
type RemindCmd struct {
	Kind        string `arg:"" enum:"morning,evening" help:"Which reminder to send: morning or evening."`
	DryRun      bool   `help:"Print the emails instead of sending them."`
	Concurrency int    `help:"Number of users processed at once." default:"1"`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	kind, err := reminder.ParseKind(c.Kind)
	if err != nil {
		return err
	}

	var sender notifier.Sender = notifier.NewPreview(os.Stdout)
	if !c.DryRun {
		if sender, err = ctx.Sender(); err != nil {
			return err
		}
	}

	result, err := ctx.Dispatcher(sender, c.Concurrency).Run(context.Background(), kind)
	if err != nil {
		return err
	}

	verb := "Sent"
	if c.DryRun {
		verb = "Rendered"
	}
	fmt.Printf("%s %d of %d %s reminders\n", verb, result.Sent, result.Attempted, kind)
	for _, f := range result.Failures {
		fmt.Printf("  ✗ %s %s: %s\n", f.Owner, f.Email, f.Error)
	}
	return nil
}
