package models

import (
	"fmt"
	"strings"
	"time"
)

type GoalType string

const (
	GoalDaily   GoalType = "daily"
	GoalWeekly  GoalType = "weekly"
	GoalMonthly GoalType = "monthly"
)

// GoalTypes lists goal types in display order.
var GoalTypes = []GoalType{GoalDaily, GoalWeekly, GoalMonthly}

// ParseGoalType accepts a goal type name, case-insensitively.
func ParseGoalType(s string) (GoalType, error) {
	t := GoalType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case GoalDaily, GoalWeekly, GoalMonthly:
		return t, nil
	}
	return "", fmt.Errorf("invalid goal type %q (expected daily, weekly or monthly)", s)
}

// Title returns the heading used when goals of this type are listed together.
func (t GoalType) Title() string {
	switch t {
	case GoalDaily:
		return "Daily Goals"
	case GoalWeekly:
		return "Weekly Goals"
	case GoalMonthly:
		return "Monthly Goals"
	default:
		return "Goals"
	}
}

type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalInactive GoalStatus = "inactive"
)

type Goal struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user_id"`
	Text      string    `json:"goal_text"`
	Type      GoalType  `json:"goal_type"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Status reports the goal's lifecycle state. Goals are never removed, only
// moved to inactive.
func (g Goal) Status() GoalStatus {
	if g.Active {
		return GoalActive
	}
	return GoalInactive
}
