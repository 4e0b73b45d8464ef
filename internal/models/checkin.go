package models

import (
	"sort"
	"time"
)

// CheckIn is one user's record for one calendar day.
type CheckIn struct {
	Owner            string    `json:"user_id"`
	Date             string    `json:"check_in_date"` // YYYY-MM-DD format
	CompletedGoalIDs []string  `json:"completed_goal_ids"`
	JournalEntry     string    `json:"journal_entry"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompletedSet returns the completed goal ids as a set.
func (c CheckIn) CompletedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.CompletedGoalIDs))
	for _, id := range c.CompletedGoalIDs {
		set[id] = struct{}{}
	}
	return set
}

// SortedIDs flattens a completed set into a sorted slice so that persisted
// rows are stable regardless of map iteration order.
func SortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
