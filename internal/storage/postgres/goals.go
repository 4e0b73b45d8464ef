package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

const goalColumns = "id, user_id, goal_text, goal_type, is_active, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var g models.Goal
	var goalType string
	if err := row.Scan(&g.ID, &g.Owner, &g.Text, &goalType, &g.Active, &g.CreatedAt); err != nil {
		return models.Goal{}, err
	}
	g.Type = models.GoalType(goalType)
	return g, nil
}

func (s *Store) AddGoal(goal models.Goal) error {
	_, err := s.db.Exec(`
		INSERT INTO goals (id, user_id, goal_text, goal_type, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		goal.ID, goal.Owner, goal.Text, string(goal.Type), goal.Active, goal.CreatedAt)
	return err
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	g, err := scanGoal(s.db.QueryRow("SELECT "+goalColumns+" FROM goals WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, apperrors.ErrNotFound)
	}
	return g, err
}

func (s *Store) GetGoals(owner string, includeInactive bool) ([]models.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals WHERE user_id = $1"
	if !includeInactive {
		query += " AND is_active"
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
	rows, err := s.db.Query("SELECT DISTINCT user_id FROM goals WHERE is_active ORDER BY user_id")
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
	result, err := s.db.Exec("UPDATE goals SET goal_text = $1 WHERE id = $2", text, id)
	if err != nil {
		return err
	}
	return requireRow(result, "goal "+id)
}

func (s *Store) DeactivateGoal(id string) error {
	result, err := s.db.Exec("UPDATE goals SET is_active = FALSE WHERE id = $1", id)
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
