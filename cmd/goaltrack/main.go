package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/cli/auth"
	"github.com/julianstephens/goaltrack/internal/cli/backups"
	"github.com/julianstephens/goaltrack/internal/cli/checkins"
	"github.com/julianstephens/goaltrack/internal/cli/goals"
	"github.com/julianstephens/goaltrack/internal/cli/reminders"
	"github.com/julianstephens/goaltrack/internal/cli/settings"
	"github.com/julianstephens/goaltrack/internal/cli/system"
	"github.com/julianstephens/goaltrack/internal/cli/trigger"
	"github.com/julianstephens/goaltrack/internal/config"
	"github.com/julianstephens/goaltrack/internal/constants"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/keyring"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/notifier"
	"github.com/julianstephens/goaltrack/internal/storage"
	"github.com/julianstephens/goaltrack/internal/storage/postgres"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, environment variables or .pgpass." default:"${default_db}" env:"GOALTRACK_DB"`
	Debug   bool   `help:"Log debug output to stderr." env:"GOALTRACK_DEBUG"`

	EmailAPIKey   string `name:"email-api-key" help:"Email provider API key. Falls back to the OS keyring." env:"GOALTRACK_SENDGRID_API_KEY"`
	EmailEndpoint string `help:"Email provider endpoint." default:"${default_email_endpoint}" env:"GOALTRACK_EMAIL_ENDPOINT"`
	SenderEmail   string `help:"From address on reminder emails." env:"GOALTRACK_SENDER_EMAIL"`
	SenderName    string `help:"From name on reminder emails." default:"${default_sender_name}" env:"GOALTRACK_SENDER_NAME"`
	AppURL        string `name:"app-url" help:"Link target for the email call to action." default:"${default_app_url}" env:"GOALTRACK_APP_URL"`

	Init    system.InitCmd    `cmd:"" help:"Initialize goaltrack storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`

	Auth struct {
		Login  auth.LoginCmd  `cmd:"" help:"Sign in with your email address."`
		Logout auth.LogoutCmd `cmd:"" help:"Sign out."`
		Whoami auth.WhoamiCmd `cmd:"" help:"Show the signed-in user."`
	} `cmd:"" help:"Manage your session."`

	Goal struct {
		Add    goals.GoalAddCmd    `cmd:"" help:"Add a goal."`
		List   goals.GoalListCmd   `cmd:"" help:"List goals."`
		Rename goals.GoalRenameCmd `cmd:"" help:"Change a goal's text."`
		Delete goals.GoalDeleteCmd `cmd:"" help:"Delete a goal. History keeps it."`
	} `cmd:"" help:"Manage goals."`

	Today   checkins.TodayCmd   `cmd:"" help:"Show today's check-in."`
	Toggle  checkins.ToggleCmd  `cmd:"" help:"Mark a goal done or not done."`
	Journal checkins.JournalCmd `cmd:"" help:"Write or show the journal entry."`
	History checkins.HistoryCmd `cmd:"" help:"Look at a past day."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage reminder settings."`
	Remind   reminders.RemindCmd  `cmd:"" help:"Send the morning or evening reminder to every user."`

	Serve  trigger.ServeCmd `cmd:"" help:"Run the HTTP trigger server for scheduled reminders."`
	Server struct {
		Status trigger.StatusCmd `cmd:"" help:"Show whether the trigger server is running."`
		Token  trigger.TokenCmd  `cmd:"" help:"Issue a bearer token for the scheduler."`
	} `cmd:"" help:"Trigger server utilities."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite database backups."`

	Keyring struct {
		Set      system.KeyringSetCmd      `cmd:"" help:"Store the database connection string in the OS keyring."`
		Get      system.KeyringGetCmd      `cmd:"" help:"Show the stored connection string, password masked."`
		Delete   system.KeyringDeleteCmd   `cmd:"" help:"Remove the stored connection string."`
		EmailKey system.KeyringEmailKeyCmd `cmd:"" name:"email-key" help:"Store or remove the email provider API key."`
		Status   system.KeyringStatusCmd   `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily, weekly and monthly goal tracker with email reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAML, constants.DefaultConfigFile),
		kong.Vars{
			"version":                constants.Version,
			"default_db":             constants.DefaultConfigPath,
			"default_email_endpoint": constants.DefaultEmailEndpoint,
			"default_sender_name":    constants.DefaultSenderName,
			"default_app_url":        constants.DefaultAppURL,
			"default_listen_addr":    constants.DefaultListenAddr,
		},
	)

	configDir := filepath.Dir(config.ExpandPath(constants.DefaultConfigPath))
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := openStore(CLI.DB)
	if err != nil {
		apperrors.Fatal(err)
	}
	if s, ok := store.(*sqlite.Store); ok {
		// backups and the lockfile live next to the database
		configDir = filepath.Dir(s.GetConfigPath())
	}

	appCtx := &cli.Context{
		Store:     store,
		ConfigDir: configDir,
		Debug:     CLI.Debug,
		Email: notifier.Config{
			Endpoint:  CLI.EmailEndpoint,
			APIKey:    CLI.EmailAPIKey,
			FromEmail: CLI.SenderEmail,
			FromName:  CLI.SenderName,
		},
		AppURL: CLI.AppURL,
	}

	// init loads the store itself; commands that never touch it skip the load
	switch ctx.Command() {
	case "init", "keyring set <connection-string>", "keyring get", "keyring delete",
		"keyring email-key", "keyring email-key <key>", "keyring status",
		"server status", "server token":
	default:
		if err := store.Load(); err != nil {
			apperrors.Fatalf("failed to load database %s: %v (run 'goaltrack init' to create it)", CLI.DB, err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// openStore picks the backend for db. A PostgreSQL connection string must
// not embed a password. A plain path that does not exist falls back to a
// connection string stored in the OS keyring.
func openStore(db string) (storage.Provider, error) {
	if postgres.IsConnString(db) {
		if _, err := postgres.ValidateConnString(db); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are NOT allowed. " +
					"Store it with 'goaltrack keyring set', or use PGPASSWORD or a .pgpass file")
			}
			return nil, err
		}
		return postgres.New(db), nil
	}

	path := config.ExpandPath(db)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			logger.Debug("Using connection string from OS keyring")
			return postgres.New(connStr), nil
		}
	}
	return sqlite.NewStore(path), nil
}
