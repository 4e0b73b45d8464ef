package storage

import "github.com/julianstephens/goaltrack/internal/models"

// Provider is the persistent store. Single-row getters return an error
// wrapping errors.ErrNotFound when no row matches.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	// GetGoals returns the owner's goals ordered by created_at ascending.
	GetGoals(owner string, includeInactive bool) ([]models.Goal, error)
	// GetActiveGoalOwners returns the distinct owners of at least one active goal.
	GetActiveGoalOwners() ([]string, error)
	UpdateGoalText(id, text string) error
	DeactivateGoal(id string) error

	// Check-ins
	GetCheckIn(owner, date string) (models.CheckIn, error)
	// UpsertCheckIn writes the full record keyed on (owner, date), replacing
	// any existing completed set and journal entry.
	UpsertCheckIn(models.CheckIn) error
	GetCheckIns(owner, startDate, endDate string) ([]models.CheckIn, error)

	// User settings
	GetUserSettings(owner string) (models.UserSettings, error)
	GetAllUserSettings() ([]models.UserSettings, error)
	UpsertUserSettings(models.UserSettings) error

	// Utils
	GetConfigPath() string
}
