package constants

import "time"

const (
	AppName           = "goaltrack"
	DefaultConfigPath = "~/.config/goaltrack/goaltrack.db"
	DefaultConfigFile = "~/.config/goaltrack/config.yaml"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DisplayDateFormat renders a calendar date the way reminders and the dashboard show it
	DisplayDateFormat = "Monday, January 2, 2006"

	// Keyring entries
	KeyringUserConnection = "database-connection"
	KeyringUserEmailKey   = "email-api-key"
	KeyringUserSession    = "session-user"

	// Email provider constants
	DefaultEmailEndpoint = "https://api.sendgrid.com/v3/mail/send"
	DefaultSenderName    = "Goal Tracker"
	DefaultAppURL        = "http://localhost:5173"
	DefaultSendTimeout   = 10 * time.Second

	// Trigger server constants
	DefaultListenAddr       = "127.0.0.1:8787"
	ServerLockfileName      = "goaltrack-server.lock"
	ServerShutdownTimeout   = 5 * time.Second
	ServerReadHeaderTimeout = 5 * time.Second
)
