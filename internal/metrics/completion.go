package metrics

import (
	"sort"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

// ComputeCompletionSummary derives the completion-record view of a habit.
// It is a separate algorithm from ComputeHabitMetrics and the two streaks
// can disagree: this one counts consecutive completed days, the other
// counts consecutive qualifying ratings.
func ComputeCompletionSummary(habit models.Habit, completions []models.HabitCompletion, asOf time.Time) HabitSummary {
	summary := HabitSummary{AverageRating: habit.Rating}

	// Duplicate completions for the same day count once.
	seen := make(map[string]bool)
	var dates []time.Time
	for _, c := range completions {
		if c.HabitID != habit.ID || !c.Completed {
			continue
		}
		summary.TotalEntries++
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		if d, ok := parseDay(c.Date); ok {
			dates = append(dates, d)
		}
	}

	end := day(asOf)
	start := end.AddDate(0, 0, -(constants.CompletionWindowDays - 1))
	inWindow := 0
	for _, d := range dates {
		if !d.Before(start) && !d.After(end) {
			inWindow++
		}
	}
	summary.CompletionRate = float64(inWindow) / constants.CompletionWindowDays * 100
	summary.Streak = completionStreak(dates)
	return summary
}

// completionStreak walks dates newest first while each step back is
// exactly one day. The walk starts at the newest completion, not at today.
func completionStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].After(sorted[j])
	})

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].AddDate(0, 0, 1).Equal(sorted[i-1]) {
			break
		}
		streak++
	}
	return streak
}

// ComputeHabitSummaries runs ComputeCompletionSummary for every habit.
// Completions may belong to any habit; they are matched by habit id.
func ComputeHabitSummaries(habits []models.Habit, completions []models.HabitCompletion, asOf time.Time) map[string]HabitSummary {
	byHabit := make(map[string][]models.HabitCompletion)
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	result := make(map[string]HabitSummary, len(habits))
	for _, habit := range habits {
		result[habit.ID] = ComputeCompletionSummary(habit, byHabit[habit.ID], asOf)
	}
	return result
}
