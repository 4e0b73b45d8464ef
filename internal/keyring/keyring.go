package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/goaltrack/internal/constants"
)

var (
	// ErrNotFound is returned when the requested entry is not in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(entry string) (string, error) {
	value, err := keyring.Get(constants.AppName, entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func set(entry, what, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, entry, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(entry, what string) error {
	if err := keyring.Delete(constants.AppName, entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
func GetConnectionString() (string, error) {
	return get(constants.KeyringUserConnection)
}

func SetConnectionString(connStr string) error {
	return set(constants.KeyringUserConnection, "connection string", connStr)
}

func DeleteConnectionString() error {
	return del(constants.KeyringUserConnection, "connection string")
}

// GetEmailAPIKey retrieves the email provider API key from the OS keyring.
func GetEmailAPIKey() (string, error) {
	return get(constants.KeyringUserEmailKey)
}

func SetEmailAPIKey(key string) error {
	return set(constants.KeyringUserEmailKey, "email API key", key)
}

func DeleteEmailAPIKey() error {
	return del(constants.KeyringUserEmailKey, "email API key")
}

// GetSessionUser returns the id of the signed-in user.
func GetSessionUser() (string, error) {
	return get(constants.KeyringUserSession)
}

func SetSessionUser(userID string) error {
	return set(constants.KeyringUserSession, "session", userID)
}

func DeleteSessionUser() error {
	return del(constants.KeyringUserSession, "session")
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
