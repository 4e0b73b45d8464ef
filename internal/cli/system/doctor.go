package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/goaltrack/internal/backup"
	"github.com/julianstephens/goaltrack/internal/cli"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/keyring"
	"github.com/julianstephens/goaltrack/internal/server"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
	"github.com/julianstephens/goaltrack/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks report problems without failing the run.
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "User settings", run: checkUserSettings, needsDB: true},
	{name: "Goal owners", run: checkGoalOwners, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Email API key", run: checkEmailAPIKey, warnOnly: true},
	{name: "Trigger server", run: checkTriggerServer, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := runnerFor(ctx)
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, err := runnerFor(ctx)
	if err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending, run 'goaltrack migrate'", pending)
	}
	return nil
}

func checkUserSettings(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllUserSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	for _, s := range all {
		if !utils.ValidateTimeFormat(s.EmailTime) {
			return fmt.Errorf("user %s has invalid reminder time %q", s.Owner, s.EmailTime)
		}
		if !utils.ValidateTimezone(s.Timezone) {
			return fmt.Errorf("user %s has unknown timezone %q", s.Owner, s.Timezone)
		}
	}
	return nil
}

// checkGoalOwners finds goals whose owner has no user record. Reminders to
// those owners fail at lookup.
func checkGoalOwners(ctx *cli.Context) error {
	owners, err := ctx.Store.GetActiveGoalOwners()
	if err != nil {
		return fmt.Errorf("failed to list goal owners: %w", err)
	}
	var orphaned int
	for _, owner := range owners {
		if _, err := ctx.Store.GetUser(owner); apperrors.IsNotFound(err) {
			orphaned++
		} else if err != nil {
			return fmt.Errorf("failed to look up user %s: %w", owner, err)
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d goal owner(s) with no user record", orphaned)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'goaltrack backup create'")
	}
	return nil
}

func checkClockTimezone(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(_ *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; sign in and stored secrets will not work")
	}
	return nil
}

func checkEmailAPIKey(ctx *cli.Context) error {
	if ctx.Email.APIKey != "" {
		return nil
	}
	if _, err := keyring.GetEmailAPIKey(); err != nil {
		return fmt.Errorf("no email API key configured; reminders can only run with --dry-run")
	}
	return nil
}

func checkTriggerServer(ctx *cli.Context) error {
	if _, err := server.ReadStatus(ctx.ConfigDir); err != nil && !errors.Is(err, server.ErrNotRunning) {
		return err
	}
	return nil
}
