package constants

const (
	// Default UserSettings values, applied when a user has never saved settings
	DefaultEmailTime = "09:00"
	DefaultTimezone  = "Local" // Use system local timezone by default

	// Settings keys accepted by `settings set`
	SettingEmailTime = "email_time"
	SettingTimezone  = "timezone"
	SettingEmail     = "email"
)
