package metrics

import (
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

type Performance string

const (
	PerformanceGreat     Performance = "great"
	PerformanceGood      Performance = "good"
	PerformanceNeedsWork Performance = "needs work"
	PerformanceNone      Performance = "no data"
)

// AverageRating is the mean of the positive ratings entries recorded for
// habitID, rounded to one decimal. Unrated days (0) are ignored.
func AverageRating(habitID string, entries []models.JournalEntry) float64 {
	var ratings []float64
	for _, e := range entries {
		if r, ok := e.HabitRating(habitID); ok && r > 0 {
			ratings = append(ratings, r)
		}
	}
	return round1(mean(ratings))
}

// PerformanceOf labels an average rating.
func PerformanceOf(avg float64) Performance {
	switch {
	case avg >= constants.GreatRating:
		return PerformanceGreat
	case avg >= constants.QualifyingRating:
		return PerformanceGood
	case avg > 0:
		return PerformanceNeedsWork
	}
	return PerformanceNone
}
