package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/models"
)

// TestStore_Integration runs against a real database.
// Example: GOALTRACK_TEST_POSTGRES="postgres://goaltrack@localhost:5432/goaltrack_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("GOALTRACK_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("GOALTRACK_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	owner := uuid.New().String()

	t.Run("Goals", func(t *testing.T) {
		goal := models.Goal{
			ID:        uuid.New().String(),
			Owner:     owner,
			Text:      "Read 20 pages",
			Type:      models.GoalDaily,
			Active:    true,
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
		if err := store.AddGoal(goal); err != nil {
			t.Fatalf("AddGoal: %v", err)
		}
		if err := store.UpdateGoalText(goal.ID, "Read 30 pages"); err != nil {
			t.Fatalf("UpdateGoalText: %v", err)
		}
		if err := store.DeactivateGoal(goal.ID); err != nil {
			t.Fatalf("DeactivateGoal: %v", err)
		}

		active, err := store.GetGoals(owner, false)
		if err != nil {
			t.Fatalf("GetGoals: %v", err)
		}
		if len(active) != 0 {
			t.Errorf("active goals = %d, want 0", len(active))
		}

		all, err := store.GetGoals(owner, true)
		if err != nil {
			t.Fatalf("GetGoals(all): %v", err)
		}
		if len(all) != 1 || all[0].Text != "Read 30 pages" {
			t.Errorf("GetGoals(all) = %+v", all)
		}

		if err := store.DeactivateGoal(uuid.New().String()); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("DeactivateGoal(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("CheckIns", func(t *testing.T) {
		c := models.CheckIn{Owner: owner, Date: "2026-03-01", CompletedGoalIDs: []string{"a", "b"}, JournalEntry: "ok"}
		if err := store.UpsertCheckIn(c); err != nil {
			t.Fatalf("UpsertCheckIn: %v", err)
		}
		c.CompletedGoalIDs = nil
		if err := store.UpsertCheckIn(c); err != nil {
			t.Fatalf("UpsertCheckIn(empty): %v", err)
		}

		got, err := store.GetCheckIn(owner, "2026-03-01")
		if err != nil {
			t.Fatalf("GetCheckIn: %v", err)
		}
		if got.Date != "2026-03-01" || len(got.CompletedGoalIDs) != 0 || got.JournalEntry != "ok" {
			t.Errorf("GetCheckIn = %+v", got)
		}
	})

	t.Run("Settings", func(t *testing.T) {
		if err := store.UpsertUserSettings(models.UserSettings{Owner: owner, Email: "it@example.com"}); err != nil {
			t.Fatalf("UpsertUserSettings: %v", err)
		}
		got, err := store.GetUserSettings(owner)
		if err != nil {
			t.Fatalf("GetUserSettings: %v", err)
		}
		if got.EmailTime != "09:00" || got.Email != "it@example.com" {
			t.Errorf("GetUserSettings = %+v", got)
		}
	})
}
