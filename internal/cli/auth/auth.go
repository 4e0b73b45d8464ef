package auth

import (
	"errors"
	"fmt"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/identity"
)

type LoginCmd struct {
	Email string `arg:"" help:"Your email address."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	user, err := identity.NewSessions(ctx.Store).SignIn(c.Email)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Signed in as %s\n", user.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := identity.NewSessions(ctx.Store).SignOut(); err != nil {
		return err
	}
	fmt.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if errors.Is(err, identity.ErrNotSignedIn) {
		fmt.Println("Not signed in.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s (id: %s)\n", user.Email, user.ID)
	return nil
}
