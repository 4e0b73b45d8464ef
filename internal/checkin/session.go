package checkin

import (
	"time"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage"
	"github.com/julianstephens/goaltrack/internal/utils"
)

// Session holds one owner's check-in for one calendar day. Every mutation is
// written straight through as a full-record upsert carrying both the
// completed set and the journal text.
//
// If a write fails the in-memory state keeps the new value; the error is
// logged and returned but nothing is rolled back.
type Session struct {
	store     storage.Provider
	owner     string
	date      string
	completed map[string]struct{}
	journal   string
	now       func() time.Time
}

// Today returns the owner's current calendar date in their configured timezone.
func Today(settings models.UserSettings) (string, error) {
	return utils.GetTodayFromSettings(settings)
}

// Open loads the check-in for (owner, date), or starts an empty one if none
// has been saved yet.
func Open(store storage.Provider, owner, date string) (*Session, error) {
	date, err := utils.ParseDate(date)
	if err != nil {
		return nil, apperrors.NewValidation("date", err.Error())
	}

	s := &Session{
		store:     store,
		owner:     owner,
		date:      date,
		completed: map[string]struct{}{},
		now:       time.Now,
	}

	existing, err := store.GetCheckIn(owner, date)
	switch {
	case err == nil:
		s.completed = existing.CompletedSet()
		s.journal = existing.JournalEntry
	case apperrors.IsNotFound(err):
		logger.Debug("No check-in yet", "owner", owner, "date", date)
	default:
		return nil, apperrors.Store("load check-in", err)
	}
	return s, nil
}

func (s *Session) Owner() string { return s.owner }

func (s *Session) Date() string { return s.date }

// Toggle flips goalID in the completed set and persists the result.
func (s *Session) Toggle(goalID string) error {
	if _, ok := s.completed[goalID]; ok {
		delete(s.completed, goalID)
	} else {
		s.completed[goalID] = struct{}{}
	}
	return s.persist("toggle goal")
}

// SaveJournal replaces the journal text and persists the result.
func (s *Session) SaveJournal(text string) error {
	s.journal = text
	return s.persist("save journal")
}

func (s *Session) persist(op string) error {
	record := s.Snapshot()
	record.UpdatedAt = s.now().UTC()
	if err := s.store.UpsertCheckIn(record); err != nil {
		logger.Error("Failed to save check-in", "op", op, "owner", s.owner, "date", s.date, "error", err)
		return apperrors.Store(op, err)
	}
	return nil
}

// Snapshot returns the session state as a check-in record.
func (s *Session) Snapshot() models.CheckIn {
	return models.CheckIn{
		Owner:            s.owner,
		Date:             s.date,
		CompletedGoalIDs: models.SortedIDs(s.completed),
		JournalEntry:     s.journal,
	}
}

// Completed returns the completed goal ids in sorted order.
func (s *Session) Completed() []string {
	return models.SortedIDs(s.completed)
}

func (s *Session) IsCompleted(goalID string) bool {
	_, ok := s.completed[goalID]
	return ok
}

func (s *Session) Journal() string {
	return s.journal
}

func (s *Session) CompletedCount() int {
	return len(s.completed)
}

// TotalCount is the number of currently active goals, not a snapshot of the
// goals that existed on the session's date.
func (s *Session) TotalCount(list []models.Goal) int {
	return goals.CountActive(list)
}
