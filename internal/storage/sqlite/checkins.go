package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

const checkInColumns = "user_id, check_in_date, completed_goal_ids, journal_entry, updated_at"

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	var ids, updatedAt string
	if err := row.Scan(&c.Owner, &c.Date, &ids, &c.JournalEntry, &updatedAt); err != nil {
		return models.CheckIn{}, err
	}
	if err := json.Unmarshal([]byte(ids), &c.CompletedGoalIDs); err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to decode completed_goal_ids for %s: %w", c.Date, err)
	}
	if c.CompletedGoalIDs == nil {
		c.CompletedGoalIDs = []string{}
	}

	t, err := time.Parse(timestampFormat, updatedAt)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to parse updated_at for %s: %w", c.Date, err)
	}
	c.UpdatedAt = t
	return c, nil
}

func (s *Store) GetCheckIn(owner, date string) (models.CheckIn, error) {
	c, err := scanCheckIn(s.db.QueryRow(
		"SELECT "+checkInColumns+" FROM check_ins WHERE user_id = ? AND check_in_date = ?", owner, date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, fmt.Errorf("check-in %s: %w", date, apperrors.ErrNotFound)
	}
	return c, err
}

func (s *Store) UpsertCheckIn(checkIn models.CheckIn) error {
	ids := checkIn.CompletedGoalIDs
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	updatedAt := checkIn.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO check_ins (user_id, check_in_date, completed_goal_ids, journal_entry, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, check_in_date) DO UPDATE SET
			completed_goal_ids = excluded.completed_goal_ids,
			journal_entry = excluded.journal_entry,
			updated_at = excluded.updated_at`,
		checkIn.Owner, checkIn.Date, string(encoded), checkIn.JournalEntry, updatedAt.UTC().Format(timestampFormat))
	return err
}

func (s *Store) GetCheckIns(owner, startDate, endDate string) ([]models.CheckIn, error) {
	rows, err := s.db.Query(`
		SELECT `+checkInColumns+`
		FROM check_ins
		WHERE user_id = ? AND check_in_date >= ? AND check_in_date <= ?
		ORDER BY check_in_date DESC`, owner, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkIns []models.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, rows.Err()
}
