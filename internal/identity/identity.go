package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/keyring"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage"
)

// ErrNotSignedIn is returned by CurrentUser when no session is stored.
var ErrNotSignedIn = errors.New("not signed in, run 'goaltrack auth login' first")

// Sessions tracks which user is signed in on this machine. The session is
// just the user id, kept in the OS keyring.
type Sessions struct {
	store storage.Provider
}

func NewSessions(store storage.Provider) *Sessions {
	return &Sessions{store: store}
}

// SignIn starts a session for the user with the given email, registering the
// user on first sign in.
func (s *Sessions) SignIn(email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return models.User{}, apperrors.NewValidation("email", fmt.Sprintf("%q is not an email address", email))
	}

	user, err := s.store.GetUserByEmail(email)
	if apperrors.IsNotFound(err) {
		user = models.User{
			ID:        uuid.New().String(),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.AddUser(user); err != nil {
			return models.User{}, apperrors.Store("add user", err)
		}
		logger.Info("Registered new user", "id", user.ID)
	} else if err != nil {
		return models.User{}, apperrors.Store("get user", err)
	}

	if err := keyring.SetSessionUser(user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CurrentUser returns the signed-in user.
func (s *Sessions) CurrentUser() (models.User, error) {
	id, err := keyring.GetSessionUser()
	if errors.Is(err, keyring.ErrNotFound) {
		return models.User{}, ErrNotSignedIn
	}
	if err != nil {
		return models.User{}, err
	}

	user, err := s.store.GetUser(id)
	if apperrors.IsNotFound(err) {
		// the session outlived its user, e.g. after switching databases
		return models.User{}, ErrNotSignedIn
	}
	if err != nil {
		return models.User{}, apperrors.Store("get user", err)
	}
	return user, nil
}

// SignOut ends the current session. Signing out twice is not an error.
func (s *Sessions) SignOut() error {
	if err := keyring.DeleteSessionUser(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// Directory resolves user ids against the store's user table.
type Directory struct {
	store storage.Provider
}

func NewDirectory(store storage.Provider) *Directory {
	return &Directory{store: store}
}

func (d *Directory) LookupUser(id string) (models.User, error) {
	user, err := d.store.GetUser(id)
	if err != nil {
		return models.User{}, apperrors.Store("lookup user", err)
	}
	return user, nil
}
