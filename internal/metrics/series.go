package metrics

import (
	"time"

	"github.com/julianstephens/daybook/internal/models"
)

// ComputeHabitSeries builds one label per entry in the window and, for each
// active habit, the rating that entry recorded for it. A habit absent from
// an entry contributes 0 at that position.
func ComputeHabitSeries(habits []models.Habit, entries []models.JournalEntry, windowDays int, asOf time.Time) HabitSeries {
	inWindow := entriesInWindow(entries, windowDays, asOf)

	s := HabitSeries{
		Labels: make([]string, len(inWindow)),
		Series: make(map[string][]float64),
	}
	for i, e := range inWindow {
		s.Labels[i] = label(e.Date)
	}
	for _, habit := range habits {
		if !habit.IsActive {
			continue
		}
		values := make([]float64, len(inWindow))
		for i, e := range inWindow {
			if rating, ok := e.HabitRating(habit.ID); ok {
				values[i] = rating
			}
		}
		s.Series[habit.ID] = values
	}
	return s
}
