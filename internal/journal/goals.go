package journal

import (
	"fmt"
	"sort"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

// ListGoals returns the user's goals, open goals first then by deadline.
func (s *Service) ListGoals(userID int64) ([]models.Goal, error) {
	raws, err := s.list(storage.KindGoals)
	if err != nil {
		return nil, err
	}
	goals := make([]models.Goal, 0, len(raws))
	for _, raw := range raws {
		g := s.norm.Goal(raw)
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Completed != goals[j].Completed {
			return !goals[i].Completed
		}
		// Open-ended goals sort last.
		di, dj := goals[i].Deadline, goals[j].Deadline
		if di == "" || dj == "" {
			return di != "" && dj == ""
		}
		return di < dj
	})
	return goals, nil
}

func (s *Service) GetGoal(id string) (models.Goal, error) {
	raw, err := s.get(storage.KindGoals, id, ErrGoalNotFound)
	if err != nil {
		return models.Goal{}, err
	}
	return s.norm.Goal(raw), nil
}

// SaveGoal creates or replaces a goal. Progress is recomputed from steps.
func (s *Service) SaveGoal(g models.Goal) (models.Goal, error) {
	goal := s.norm.Goal(canonical(g))
	if err := s.put(storage.KindGoals, goal.ID, goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// AddGoalStep appends a step to the goal.
func (s *Service) AddGoalStep(goalID, description string) (models.Goal, error) {
	goal, err := s.GetGoal(goalID)
	if err != nil {
		return models.Goal{}, err
	}
	goal.Steps = append(goal.Steps, models.GoalStep{Description: description})
	return s.SaveGoal(goal)
}

// ToggleGoalStep flips the completion of one step.
func (s *Service) ToggleGoalStep(goalID, stepID string) (models.Goal, error) {
	goal, err := s.GetGoal(goalID)
	if err != nil {
		return models.Goal{}, err
	}
	found := false
	for i := range goal.Steps {
		if goal.Steps[i].ID == stepID {
			goal.Steps[i].Completed = !goal.Steps[i].Completed
			found = true
			break
		}
	}
	if !found {
		return models.Goal{}, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
	}
	return s.SaveGoal(goal)
}

func (s *Service) DeleteGoal(id string) error {
	return s.delete(storage.KindGoals, id, ErrGoalNotFound)
}
