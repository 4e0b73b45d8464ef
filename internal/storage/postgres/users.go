package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

func (s *Store) AddUser(user models.User) error {
	_, err := s.db.Exec("INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)",
		user.ID, user.Email, user.CreatedAt)
	return err
}

func (s *Store) GetUser(id string) (models.User, error) {
	return scanUser(s.db.QueryRow("SELECT id, email, created_at FROM users WHERE id = $1", id), id)
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	return scanUser(s.db.QueryRow("SELECT id, email, created_at FROM users WHERE email = $1", email), email)
}

func scanUser(row *sql.Row, key string) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %s: %w", key, apperrors.ErrNotFound)
		}
		return models.User{}, err
	}
	return u, nil
}
