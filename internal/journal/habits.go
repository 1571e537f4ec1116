package journal

import (
	"fmt"
	"sort"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

// ListHabits returns the user's habits, oldest first.
func (s *Service) ListHabits(userID int64) ([]models.Habit, error) {
	raws, err := s.list(storage.KindHabits)
	if err != nil {
		return nil, err
	}
	habits := make([]models.Habit, 0, len(raws))
	for _, raw := range raws {
		h := s.norm.Habit(raw)
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}
	sort.SliceStable(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.Before(habits[j].CreatedAt)
		}
		return habits[i].Name < habits[j].Name
	})
	return habits, nil
}

// ListActiveHabits is ListHabits without archived habits.
func (s *Service) ListActiveHabits(userID int64) ([]models.Habit, error) {
	habits, err := s.ListHabits(userID)
	if err != nil {
		return nil, err
	}
	active := habits[:0]
	for _, h := range habits {
		if h.IsActive {
			active = append(active, h)
		}
	}
	return active, nil
}

func (s *Service) GetHabit(id string) (models.Habit, error) {
	raw, err := s.get(storage.KindHabits, id, ErrHabitNotFound)
	if err != nil {
		return models.Habit{}, err
	}
	return s.norm.Habit(raw), nil
}

// AddHabit stores a new habit, filling in its id and timestamps.
func (s *Service) AddHabit(h models.Habit) (models.Habit, error) {
	now := s.nowUTC()
	h.ID = ""
	h.CreatedAt = now
	h.UpdatedAt = now
	habit := s.norm.Habit(canonical(h))
	if err := s.put(storage.KindHabits, habit.ID, habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// UpdateHabit replaces the stored habit with the same id. The creation time
// is preserved and updatedAt is set to now.
func (s *Service) UpdateHabit(h models.Habit) (models.Habit, error) {
	if h.ID == "" {
		return models.Habit{}, fmt.Errorf("%w: empty id", ErrHabitNotFound)
	}
	existing, err := s.GetHabit(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt = existing.CreatedAt
	h.UpdatedAt = s.nowUTC()
	habit := s.norm.Habit(canonical(h))
	if err := s.put(storage.KindHabits, habit.ID, habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit removes the habit. Entries keep their snapshots of it and its
// completions stay in the store.
func (s *Service) DeleteHabit(id string) error {
	return s.delete(storage.KindHabits, id, ErrHabitNotFound)
}
