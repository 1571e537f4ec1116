package metrics

import (
	"sort"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

// ComputeHabitMetrics derives the rating-trend view of every habit from the
// snapshots embedded in entries. Habits with no snapshots get zeroed metrics.
func ComputeHabitMetrics(habits []models.Habit, entries []models.JournalEntry) map[string]HabitMetrics {
	// Entries are visited in date order so equal snapshot timestamps keep
	// the order the days happened in.
	ordered := make([]models.JournalEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	result := make(map[string]HabitMetrics, len(habits))
	for _, habit := range habits {
		result[habit.ID] = habitMetrics(snapshotsFor(habit.ID, ordered))
	}
	return result
}

func snapshotsFor(habitID string, entries []models.JournalEntry) []models.HabitSnapshot {
	var snapshots []models.HabitSnapshot
	for _, entry := range entries {
		for _, s := range entry.Habits {
			if s.ID == habitID {
				snapshots = append(snapshots, s)
			}
		}
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].UpdatedAt.Before(snapshots[j].UpdatedAt)
	})
	return snapshots
}

// habitMetrics expects snapshots in ascending updatedAt order.
func habitMetrics(snapshots []models.HabitSnapshot) HabitMetrics {
	ratings := make([]float64, len(snapshots))
	for i, s := range snapshots {
		ratings[i] = s.Rating
	}

	m := HabitMetrics{
		Trend:         TrendFlat,
		RecentRatings: []float64{},
	}
	n := len(ratings)
	if n == 0 {
		return m
	}

	m.CurrentRating = ratings[n-1]
	if n > 1 {
		m.PreviousRating = ratings[n-2]
	}
	m.Trend = trendOf(m.CurrentRating, m.PreviousRating)
	m.Streak = ratingStreak(ratings)

	qualifying := 0
	for _, r := range ratings {
		m.BestRating = max(m.BestRating, r)
		if r >= constants.QualifyingRating {
			qualifying++
		}
	}
	m.CompletionRate = float64(qualifying) / float64(n) * 100

	recent := ratings[max(0, n-constants.RecentRatingsCount):]
	m.RecentRatings = append(m.RecentRatings, recent...)
	return m
}

// ratingStreak counts qualifying ratings backward from the last one.
func ratingStreak(ratings []float64) int {
	streak := 0
	for i := len(ratings) - 1; i >= 0; i-- {
		if ratings[i] < constants.QualifyingRating {
			break
		}
		streak++
	}
	return streak
}
