package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/goaltrack/internal/constants"
)

// DefaultUserSettings returns the settings a user has before ever saving any.
func DefaultUserSettings(owner, email string) UserSettings {
	return UserSettings{
		Owner:     owner,
		EmailTime: constants.DefaultEmailTime,
		Timezone:  constants.DefaultTimezone,
		Email:     email,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *UserSettings) {
	if settings.EmailTime == "" {
		settings.EmailTime = constants.DefaultEmailTime
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// SetField updates a single setting by key, validating the value.
func (s *UserSettings) SetField(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case constants.SettingEmailTime:
		if _, err := time.Parse(constants.TimeFormat, value); err != nil {
			return fmt.Errorf("invalid time format %q (expected HH:MM)", value)
		}
		s.EmailTime = value
	case constants.SettingTimezone:
		if value != "" && value != "Local" {
			if _, err := time.LoadLocation(value); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", value, err)
			}
		}
		s.Timezone = value
	case constants.SettingEmail:
		if !strings.Contains(value, "@") {
			return fmt.Errorf("invalid email address %q", value)
		}
		s.Email = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// SettingsToMap converts a UserSettings struct to a map of key-value pairs.
func SettingsToMap(settings UserSettings) map[string]string {
	return map[string]string{
		constants.SettingEmailTime: settings.EmailTime,
		constants.SettingTimezone:  settings.Timezone,
		constants.SettingEmail:     settings.Email,
	}
}
