package journal

import (
	"sort"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

func (s *Service) allCompletions() ([]models.HabitCompletion, error) {
	raws, err := s.list(storage.KindCompletions)
	if err != nil {
		return nil, err
	}
	completions := make([]models.HabitCompletion, 0, len(raws))
	for _, raw := range raws {
		completions = append(completions, s.norm.Completion(raw))
	}
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Date != completions[j].Date {
			return completions[i].Date < completions[j].Date
		}
		return completions[i].CreatedAt.Before(completions[j].CreatedAt)
	})
	return completions, nil
}

// ListCompletions returns every completion recorded for habitID, ordered
// by date.
func (s *Service) ListCompletions(habitID string) ([]models.HabitCompletion, error) {
	all, err := s.allCompletions()
	if err != nil {
		return nil, err
	}
	var out []models.HabitCompletion
	for _, c := range all {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListCompletionsInRange returns the completions of habitID dated between
// start and end inclusive (YYYY-MM-DD).
func (s *Service) ListCompletionsInRange(habitID, start, end string) ([]models.HabitCompletion, error) {
	completions, err := s.ListCompletions(habitID)
	if err != nil {
		return nil, err
	}
	var out []models.HabitCompletion
	for _, c := range completions {
		if c.Date >= start && c.Date <= end {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListUserCompletions returns the completions owned by userID.
func (s *Service) ListUserCompletions(userID int64) ([]models.HabitCompletion, error) {
	all, err := s.allCompletions()
	if err != nil {
		return nil, err
	}
	var out []models.HabitCompletion
	for _, c := range all {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// AddCompletion stores c under a fresh id and creation time.
func (s *Service) AddCompletion(c models.HabitCompletion) (models.HabitCompletion, error) {
	c.ID = ""
	c.CreatedAt = s.nowUTC()
	completion := s.norm.Completion(canonical(c))
	if err := s.put(storage.KindCompletions, completion.ID, completion); err != nil {
		return models.HabitCompletion{}, err
	}
	return completion, nil
}

func (s *Service) RemoveCompletion(id string) error {
	return s.delete(storage.KindCompletions, id, ErrCompletionNotFound)
}

// RemoveCompletionsOn deletes every completion of habitID dated date and
// reports how many were removed.
func (s *Service) RemoveCompletionsOn(habitID, date string) (int, error) {
	completions, err := s.ListCompletionsInRange(habitID, date, date)
	if err != nil {
		return 0, err
	}
	for _, c := range completions {
		if err := s.RemoveCompletion(c.ID); err != nil {
			return 0, err
		}
	}
	return len(completions), nil
}

// LogHabit records a completion for the habit and, when rating is set,
// stores it as the habit's current rating. The completion is removed again
// if the rating cannot be saved.
func (s *Service) LogHabit(userID int64, habitID, date string, rating, value *float64, notes *string) (models.HabitCompletion, error) {
	habit, err := s.GetHabit(habitID)
	if err != nil {
		return models.HabitCompletion{}, err
	}
	completion, err := s.AddCompletion(models.HabitCompletion{
		HabitID:   habit.ID,
		UserID:    userID,
		Date:      date,
		Completed: true,
		Value:     value,
		Notes:     notes,
	})
	if err != nil {
		return models.HabitCompletion{}, err
	}
	if rating != nil {
		habit.Rating = *rating
		if _, err := s.UpdateHabit(habit); err != nil {
			if rmErr := s.RemoveCompletion(completion.ID); rmErr != nil {
				logger.Warn("failed to roll back completion", "id", completion.ID, "err", rmErr)
			}
			return models.HabitCompletion{}, err
		}
	}
	return completion, nil
}
