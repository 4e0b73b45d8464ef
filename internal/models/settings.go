package models

// UserSettings represents one user's reminder preferences
type UserSettings struct {
	Owner     string `json:"user_id"`
	EmailTime string `json:"email_time"` // preferred reminder time of day, e.g. "09:00"
	Timezone  string `json:"timezone"`   // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	Email     string `json:"user_email"` // contact address reminders are sent to
}
