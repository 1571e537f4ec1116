package metrics

import (
	"sort"
	"time"

	"github.com/julianstephens/daybook/internal/models"
)

// ComputeDayRatings compares initial and final mood ratings for the entries
// dated within [asOf-windowDays, asOf].
func ComputeDayRatings(entries []models.JournalEntry, windowDays int, asOf time.Time) DayRatings {
	inWindow := entriesInWindow(entries, windowDays, asOf)

	r := DayRatings{
		Labels:         make([]string, 0, len(inWindow)),
		InitialRatings: make([]float64, 0, len(inWindow)),
		FinalRatings:   make([]float64, 0, len(inWindow)),
	}
	for _, e := range inWindow {
		r.Labels = append(r.Labels, label(e.Date))
		r.InitialRatings = append(r.InitialRatings, e.InitialRating)
		r.FinalRatings = append(r.FinalRatings, e.FinalRating)
	}

	r.AverageInitial = round1(mean(r.InitialRatings))
	r.AverageFinal = round1(mean(r.FinalRatings))
	r.Improvement = round1(r.AverageFinal - r.AverageInitial)
	r.Trend = trendOf(r.Improvement, 0)
	return r
}

// entriesInWindow returns the entries whose date falls in the inclusive
// window ending at asOf, sorted ascending by date.
func entriesInWindow(entries []models.JournalEntry, windowDays int, asOf time.Time) []models.JournalEntry {
	end := day(asOf)
	from := formatDay(end.AddDate(0, 0, -windowDays))
	to := formatDay(end)

	var out []models.JournalEntry
	for _, e := range entries {
		if _, ok := parseDay(e.Date); !ok {
			continue
		}
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
