package settings

import (
	"fmt"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/constants"
	"github.com/julianstephens/goaltrack/internal/tui"
)

type SettingsCmd struct {
	List        bool `help:"List current settings."`
	Interactive bool `short:"i" help:"Edit settings with a form."`

	EmailTime *string `help:"Preferred reminder time (HH:MM)."`
	Timezone  *string `help:"IANA timezone, or Local."`
	Email     *string `help:"Address reminders are sent to."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	settings, err := ctx.UserSettings(user)
	if err != nil {
		return err
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Email:          %s\n", settings.Email)
		fmt.Printf("  Reminder Time:  %s\n", settings.EmailTime)
		fmt.Printf("  Timezone:       %s\n", settings.Timezone)
		return nil
	}

	updates := map[string]*string{
		constants.SettingEmailTime: c.EmailTime,
		constants.SettingTimezone:  c.Timezone,
		constants.SettingEmail:     c.Email,
	}
	if c.Interactive {
		fm := &tui.SettingsFormModel{
			EmailTime: settings.EmailTime,
			Timezone:  settings.Timezone,
			Email:     settings.Email,
		}
		if err := tui.NewSettingsForm(fm).Run(); err != nil {
			return err
		}
		updates = map[string]*string{
			constants.SettingEmailTime: &fm.EmailTime,
			constants.SettingTimezone:  &fm.Timezone,
			constants.SettingEmail:     &fm.Email,
		}
	}

	updated := false
	for _, key := range []string{constants.SettingEmail, constants.SettingEmailTime, constants.SettingTimezone} {
		value := updates[key]
		if value == nil {
			continue
		}
		if err := settings.SetField(key, *value); err != nil {
			return err
		}
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.UpsertUserSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
