package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/goaltrack/internal/backup"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/identity"
	"github.com/julianstephens/goaltrack/internal/keyring"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/notifier"
	"github.com/julianstephens/goaltrack/internal/reminder"
	"github.com/julianstephens/goaltrack/internal/storage"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
	"github.com/julianstephens/goaltrack/internal/utils"
)

// ErrNoEmailAPIKey is returned when a real send is requested without credentials.
var ErrNoEmailAPIKey = errors.New("no email API key configured. Set GOALTRACK_SENDGRID_API_KEY or run 'goaltrack keyring set-email-key'")

type Context struct {
	Store storage.Provider
	// ConfigDir holds logs, backups and the server lockfile.
	ConfigDir string
	Debug     bool
	Email     notifier.Config
	AppURL    string
}

// CurrentUser returns the signed-in user.
func (c *Context) CurrentUser() (models.User, error) {
	return identity.NewSessions(c.Store).CurrentUser()
}

// UserSettings returns the user's saved settings, or the defaults when the
// user has never saved any.
func (c *Context) UserSettings(user models.User) (models.UserSettings, error) {
	settings, err := c.Store.GetUserSettings(user.ID)
	if apperrors.IsNotFound(err) {
		return models.DefaultUserSettings(user.ID, user.Email), nil
	}
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// ResolveDate returns date normalized, or the user's local today when date
// is empty.
func (c *Context) ResolveDate(user models.User, date string) (string, error) {
	if date != "" {
		return utils.ParseDate(date)
	}
	settings, err := c.UserSettings(user)
	if err != nil {
		return "", err
	}
	return utils.GetTodayFromSettings(settings)
}

// Sender returns the email client, taking the API key from the flags or the
// OS keyring.
func (c *Context) Sender() (notifier.Sender, error) {
	cfg := c.Email
	if cfg.APIKey == "" {
		key, err := keyring.GetEmailAPIKey()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrKeyringUnavailable) {
				return nil, ErrNoEmailAPIKey
			}
			return nil, err
		}
		cfg.APIKey = key
	}
	return notifier.New(cfg), nil
}

func (c *Context) Dispatcher(sender notifier.Sender, concurrency int) *reminder.Dispatcher {
	return reminder.NewDispatcher(c.Store, identity.NewDirectory(c.Store), sender, reminder.Options{
		AppURL:      c.AppURL,
		Concurrency: concurrency,
	})
}

// PerformAutomaticBackup snapshots a SQLite database before a destructive
// change. Failures are logged and otherwise ignored.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Warn prints a non-fatal problem for the user and logs it.
func Warn(msg string, err error) {
	fmt.Fprintf(os.Stderr, "⚠ %s: %v\n", msg, err)
	logger.Warn(msg, "error", err)
}
