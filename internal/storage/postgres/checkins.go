package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/goaltrack/internal/constants"
	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

const checkInColumns = "user_id, check_in_date, completed_goal_ids, journal_entry, updated_at"

func scanCheckIn(row rowScanner) (models.CheckIn, error) {
	var c models.CheckIn
	var date time.Time
	var ids pq.StringArray
	if err := row.Scan(&c.Owner, &date, &ids, &c.JournalEntry, &c.UpdatedAt); err != nil {
		return models.CheckIn{}, err
	}
	c.Date = date.Format(constants.DateFormat)
	c.CompletedGoalIDs = []string(ids)
	if c.CompletedGoalIDs == nil {
		c.CompletedGoalIDs = []string{}
	}
	return c, nil
}

func (s *Store) GetCheckIn(owner, date string) (models.CheckIn, error) {
	c, err := scanCheckIn(s.db.QueryRow(
		"SELECT "+checkInColumns+" FROM check_ins WHERE user_id = $1 AND check_in_date = $2", owner, date))
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
	updatedAt := checkIn.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO check_ins (user_id, check_in_date, completed_goal_ids, journal_entry, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, check_in_date) DO UPDATE SET
			completed_goal_ids = EXCLUDED.completed_goal_ids,
			journal_entry = EXCLUDED.journal_entry,
			updated_at = EXCLUDED.updated_at`,
		checkIn.Owner, checkIn.Date, pq.Array(ids), checkIn.JournalEntry, updatedAt)
	return err
}

func (s *Store) GetCheckIns(owner, startDate, endDate string) ([]models.CheckIn, error) {
	rows, err := s.db.Query(`
		SELECT `+checkInColumns+`
		FROM check_ins
		WHERE user_id = $1 AND check_in_date >= $2 AND check_in_date <= $3
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
