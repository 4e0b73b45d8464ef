package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

const goalColumns = "id, user_id, goal_text, goal_type, is_active, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var g models.Goal
	var goalType, createdAt string
	var active int
	if err := row.Scan(&g.ID, &g.Owner, &g.Text, &goalType, &active, &createdAt); err != nil {
		return models.Goal{}, err
	}
	g.Type = models.GoalType(goalType)
	g.Active = active != 0

	t, err := time.Parse(timestampFormat, createdAt)
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to parse created_at for goal %s: %w", g.ID, err)
	}
	g.CreatedAt = t
	return g, nil
}

func (s *Store) AddGoal(goal models.Goal) error {
	active := 0
	if goal.Active {
		active = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO goals (id, user_id, goal_text, goal_type, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Owner, goal.Text, string(goal.Type), active, goal.CreatedAt.UTC().Format(timestampFormat))
	return err
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	g, err := scanGoal(s.db.QueryRow("SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, apperrors.ErrNotFound)
	}
	return g, err
}

func (s *Store) GetGoals(owner string, includeInactive bool) ([]models.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals WHERE user_id = ?"
	if !includeInactive {
		query += " AND is_active = 1"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) GetActiveGoalOwners() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT user_id FROM goals WHERE is_active = 1 ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

func (s *Store) UpdateGoalText(id, text string) error {
	result, err := s.db.Exec("UPDATE goals SET goal_text = ? WHERE id = ?", text, id)
	if err != nil {
		return err
	}
	return requireRow(result, "goal "+id)
}

func (s *Store) DeactivateGoal(id string) error {
	result, err := s.db.Exec("UPDATE goals SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(result, "goal "+id)
}

func requireRow(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return nil
}
