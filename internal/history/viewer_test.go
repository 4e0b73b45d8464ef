package history

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/goaltrack/internal/checkin"
	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
)

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createGoals(t *testing.T, r *goals.Registry, owner string, texts ...string) []models.Goal {
	t.Helper()
	var out []models.Goal
	for _, text := range texts {
		g, err := r.Create(owner, text, models.GoalDaily)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", text, err)
		}
		out = append(out, g)
	}
	return out
}

func TestForDateNoData(t *testing.T) {
	store := setupTestStore(t)
	v := NewViewer(store)

	report, err := v.ForDate("u1", "2026-01-01")
	if err != nil {
		t.Fatalf("ForDate() failed: %v", err)
	}
	if report.Found {
		t.Error("ForDate() reported data for a day with no check-in")
	}
	if report.CompletionPercentage != 0 || len(report.CompletedGoals) != 0 {
		t.Errorf("empty report = %+v", report)
	}
}

func TestForDatePercentage(t *testing.T) {
	store := setupTestStore(t)
	r := goals.New(store)
	gs := createGoals(t, r, "u1", "a", "b", "c", "d")

	s, err := checkin.Open(store, "u1", "2026-01-02")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.Toggle(gs[0].ID)
	s.Toggle(gs[2].ID)
	s.SaveJournal("half way")

	report, err := NewViewer(store).ForDate("u1", "2026-01-02")
	if err != nil {
		t.Fatalf("ForDate() failed: %v", err)
	}
	if !report.Found {
		t.Fatal("ForDate() did not find the check-in")
	}
	if report.ActiveGoalsCount != 4 {
		t.Errorf("ActiveGoalsCount = %d, want 4", report.ActiveGoalsCount)
	}
	if report.CompletionPercentage != 50 {
		t.Errorf("CompletionPercentage = %d, want 50", report.CompletionPercentage)
	}
	if report.JournalEntry != "half way" {
		t.Errorf("JournalEntry = %q", report.JournalEntry)
	}
}

func TestForDateDanglingReference(t *testing.T) {
	store := setupTestStore(t)
	r := goals.New(store)
	gs := createGoals(t, r, "u1", "kept", "retired", "other")

	s, _ := checkin.Open(store, "u1", "2026-01-03")
	s.Toggle(gs[1].ID)
	s.Toggle("deleted-long-ago")

	if err := r.Deactivate("u1", gs[1].ID); err != nil {
		t.Fatalf("Deactivate() failed: %v", err)
	}

	report, err := NewViewer(store).ForDate("u1", "2026-01-03")
	if err != nil {
		t.Fatalf("ForDate() failed: %v", err)
	}
	if len(report.CompletedGoals) != 1 || report.CompletedGoals[0].ID != gs[1].ID {
		t.Fatalf("CompletedGoals = %+v, want the deactivated goal only", report.CompletedGoals)
	}
	if report.ActiveGoalsCount != 2 {
		t.Errorf("ActiveGoalsCount = %d, want 2", report.ActiveGoalsCount)
	}
	if report.CompletionPercentage != 50 {
		t.Errorf("CompletionPercentage = %d, want 50", report.CompletionPercentage)
	}

	active, err := r.ListActive("u1")
	if err != nil {
		t.Fatalf("ListActive() failed: %v", err)
	}
	for _, g := range active {
		if g.ID == gs[1].ID {
			t.Error("deactivated goal still appears on the active dashboard")
		}
	}
}

func TestForDateNoActiveGoals(t *testing.T) {
	store := setupTestStore(t)
	r := goals.New(store)
	gs := createGoals(t, r, "u1", "only")

	s, _ := checkin.Open(store, "u1", "2026-01-04")
	s.Toggle(gs[0].ID)
	r.Deactivate("u1", gs[0].ID)

	report, err := NewViewer(store).ForDate("u1", "2026-01-04")
	if err != nil {
		t.Fatalf("ForDate() failed: %v", err)
	}
	if report.CompletionPercentage != 0 {
		t.Errorf("CompletionPercentage = %d, want 0 with no active goals", report.CompletionPercentage)
	}
}

func TestRange(t *testing.T) {
	store := setupTestStore(t)
	r := goals.New(store)
	gs := createGoals(t, r, "u1", "a", "b")

	for date, ids := range map[string][]string{
		"2026-01-01": {gs[0].ID, gs[1].ID},
		"2026-01-03": {gs[0].ID},
	} {
		s, err := checkin.Open(store, "u1", date)
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", date, err)
		}
		for _, id := range ids {
			if err := s.Toggle(id); err != nil {
				t.Fatalf("Toggle() failed: %v", err)
			}
		}
	}

	reports, err := NewViewer(store).Range("u1", "2026-01-03", 4)
	if err != nil {
		t.Fatalf("Range() failed: %v", err)
	}

	want := []struct {
		date  string
		found bool
		pct   int
	}{
		{"2026-01-03", true, 50},
		{"2026-01-02", false, 0},
		{"2026-01-01", true, 100},
		{"2025-12-31", false, 0},
	}
	if len(reports) != len(want) {
		t.Fatalf("Range() returned %d reports, want %d", len(reports), len(want))
	}
	for i, w := range want {
		got := reports[i]
		if got.Date != w.date || got.Found != w.found || got.CompletionPercentage != w.pct {
			t.Errorf("reports[%d] = {%s %v %d}, want %+v", i, got.Date, got.Found, got.CompletionPercentage, w)
		}
	}
}

func TestRangeValidation(t *testing.T) {
	v := NewViewer(setupTestStore(t))
	if _, err := v.Range("u1", "03/01/2026", 3); err == nil {
		t.Error("Range() accepted a malformed date")
	}
	if _, err := v.Range("u1", "2026-01-03", 0); err == nil {
		t.Error("Range() accepted zero days")
	}
}
