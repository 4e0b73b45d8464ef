package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

const settingsColumns = "user_id, email_time, timezone, user_email"

func (s *Store) GetUserSettings(owner string) (models.UserSettings, error) {
	var us models.UserSettings
	err := s.db.QueryRow("SELECT "+settingsColumns+" FROM user_settings WHERE user_id = ?", owner).
		Scan(&us.Owner, &us.EmailTime, &us.Timezone, &us.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserSettings{}, fmt.Errorf("settings for %s: %w", owner, apperrors.ErrNotFound)
		}
		return models.UserSettings{}, err
	}
	return us, nil
}

func (s *Store) GetAllUserSettings() ([]models.UserSettings, error) {
	rows, err := s.db.Query("SELECT " + settingsColumns + " FROM user_settings ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []models.UserSettings
	for rows.Next() {
		var us models.UserSettings
		if err := rows.Scan(&us.Owner, &us.EmailTime, &us.Timezone, &us.Email); err != nil {
			return nil, err
		}
		all = append(all, us)
	}
	return all, rows.Err()
}

func (s *Store) UpsertUserSettings(settings models.UserSettings) error {
	models.ApplyDefaultSettings(&settings)
	_, err := s.db.Exec(`
		INSERT INTO user_settings (user_id, email_time, timezone, user_email)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email_time = excluded.email_time,
			timezone = excluded.timezone,
			user_email = excluded.user_email`,
		settings.Owner, settings.EmailTime, settings.Timezone, settings.Email)
	return err
}
