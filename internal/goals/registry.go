package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/goaltrack/internal/errors"
	"github.com/julianstephens/goaltrack/internal/logger"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage"
)

// Registry manages one store's goals. Every operation is scoped to an owner;
// goals belonging to someone else are reported as not found.
type Registry struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider) *Registry {
	return &Registry{
		store: store,
		now:   time.Now,
	}
}

// ListActive returns the owner's active goals, oldest first.
func (r *Registry) ListActive(owner string) ([]models.Goal, error) {
	goals, err := r.store.GetGoals(owner, false)
	return goals, apperrors.Store("list active goals", err)
}

// ListAll returns every goal the owner has created, including deactivated ones.
func (r *Registry) ListAll(owner string) ([]models.Goal, error) {
	goals, err := r.store.GetGoals(owner, true)
	return goals, apperrors.Store("list goals", err)
}

func (r *Registry) Create(owner, text string, goalType models.GoalType) (models.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Goal{}, apperrors.NewValidation("text", "goal text cannot be empty")
	}
	parsed, err := models.ParseGoalType(string(goalType))
	if err != nil {
		return models.Goal{}, apperrors.NewValidation("type", err.Error())
	}

	goal := models.Goal{
		ID:        uuid.New().String(),
		Owner:     owner,
		Text:      text,
		Type:      parsed,
		Active:    true,
		CreatedAt: r.now().UTC(),
	}
	if err := r.store.AddGoal(goal); err != nil {
		logger.Error("Failed to add goal", "owner", owner, "error", err)
		return models.Goal{}, apperrors.Store("add goal", err)
	}

	logger.Debug("Goal created", "id", goal.ID, "type", goal.Type)
	return goal, nil
}

// Rename replaces a goal's text. Type, status and creation time are untouched.
func (r *Registry) Rename(owner, id, text string) (models.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Goal{}, apperrors.NewValidation("text", "goal text cannot be empty")
	}

	goal, err := r.owned(owner, id)
	if err != nil {
		return models.Goal{}, err
	}
	if err := r.store.UpdateGoalText(id, text); err != nil {
		logger.Error("Failed to rename goal", "id", id, "error", err)
		return models.Goal{}, apperrors.Store("rename goal", err)
	}

	goal.Text = text
	return goal, nil
}

// Deactivate soft-deletes a goal. Deactivating an inactive goal is a no-op.
func (r *Registry) Deactivate(owner, id string) error {
	goal, err := r.owned(owner, id)
	if err != nil {
		return err
	}
	if !goal.Active {
		return nil
	}
	if err := r.store.DeactivateGoal(id); err != nil {
		logger.Error("Failed to deactivate goal", "id", id, "error", err)
		return apperrors.Store("deactivate goal", err)
	}

	logger.Debug("Goal deactivated", "id", id)
	return nil
}

// Get returns one of the owner's goals, active or not.
func (r *Registry) Get(owner, id string) (models.Goal, error) {
	return r.owned(owner, id)
}

func (r *Registry) owned(owner, id string) (models.Goal, error) {
	goal, err := r.store.GetGoal(id)
	if err != nil {
		return models.Goal{}, apperrors.Store("get goal", err)
	}
	if goal.Owner != owner {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, apperrors.ErrNotFound)
	}
	return goal, nil
}

// Partition groups goals by type. The returned map has an entry for every
// type in models.GoalTypes, empty when there are no goals of that type.
// Input order is preserved within each group.
func Partition(goals []models.Goal) map[models.GoalType][]models.Goal {
	groups := make(map[models.GoalType][]models.Goal, len(models.GoalTypes))
	for _, t := range models.GoalTypes {
		groups[t] = []models.Goal{}
	}
	for _, g := range goals {
		groups[g.Type] = append(groups[g.Type], g)
	}
	return groups
}

// CountActive returns how many of goals are active.
func CountActive(goals []models.Goal) int {
	n := 0
	for _, g := range goals {
		if g.Active {
			n++
		}
	}
	return n
}
