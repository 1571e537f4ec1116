// Package analytics assembles metrics for one user from the journal.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/models"
)

// Source is the part of the journal service analytics reads from.
type Source interface {
	ListHabits(userID int64) ([]models.Habit, error)
	ListEntries(userID int64) ([]models.JournalEntry, error)
	ListUserCompletions(userID int64) ([]models.HabitCompletion, error)
	ListGoals(userID int64) ([]models.Goal, error)
}

// HabitReport joins a habit with both of its metric views.
type HabitReport struct {
	Habit         models.Habit
	Metrics       metrics.HabitMetrics
	Summary       metrics.HabitSummary
	AverageRating float64
	Performance   metrics.Performance
}

// Report is everything the analytics screen shows for one window.
type Report struct {
	UserID     int64
	Window     metrics.Window
	AsOf       time.Time
	Habits     []HabitReport
	DayRatings metrics.DayRatings
	Series     metrics.HabitSeries
	Goals      metrics.GoalSummary
}

// BuildReport computes the report for userID over window ending at asOf.
func BuildReport(src Source, userID int64, window metrics.Window, asOf time.Time) (Report, error) {
	if !window.Valid() {
		return Report{}, fmt.Errorf("invalid window: %d days", int(window))
	}
	habits, err := src.ListHabits(userID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load habits: %w", err)
	}
	entries, err := src.ListEntries(userID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load entries: %w", err)
	}
	completions, err := src.ListUserCompletions(userID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load completions: %w", err)
	}
	goals, err := src.ListGoals(userID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load goals: %w", err)
	}

	habitMetrics := metrics.ComputeHabitMetrics(habits, entries)
	summaries := metrics.ComputeHabitSummaries(habits, completions, asOf)

	report := Report{
		UserID:     userID,
		Window:     window,
		AsOf:       asOf,
		Habits:     make([]HabitReport, 0, len(habits)),
		DayRatings: metrics.ComputeDayRatings(entries, window.Days(), asOf),
		Series:     metrics.ComputeHabitSeries(habits, entries, window.Days(), asOf),
		Goals:      metrics.SummarizeGoals(goals),
	}
	for _, h := range habits {
		avg := metrics.AverageRating(h.ID, entries)
		report.Habits = append(report.Habits, HabitReport{
			Habit:         h,
			Metrics:       habitMetrics[h.ID],
			Summary:       summaries[h.ID],
			AverageRating: avg,
			Performance:   metrics.PerformanceOf(avg),
		})
	}
	return report, nil
}

// Dashboard is the at-a-glance summary shown on start.
type Dashboard struct {
	UserID         int64
	AsOf           time.Time
	JournalStreak  int
	TotalEntries   int
	CompletedToday int
	ActiveHabits   int
	Mood           float64
	MoodLabel      string
	TodayHasEntry  bool
	RecentEntries  []models.JournalEntry
	ActiveGoals    []models.Goal
}

const recentEntryCount = 3

// BuildDashboard computes the dashboard for userID on the day of asOf.
func BuildDashboard(src Source, userID int64, asOf time.Time) (Dashboard, error) {
	habits, err := src.ListHabits(userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load habits: %w", err)
	}
	entries, err := src.ListEntries(userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load entries: %w", err)
	}
	completions, err := src.ListUserCompletions(userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load completions: %w", err)
	}
	goals, err := src.ListGoals(userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load goals: %w", err)
	}

	today := asOf.Format(constants.DateFormat)
	d := Dashboard{
		UserID:        userID,
		AsOf:          asOf,
		JournalStreak: metrics.EntryStreak(entries, asOf),
		TotalEntries:  len(entries),
		RecentEntries: []models.JournalEntry{},
		ActiveGoals:   []models.Goal{},
		MoodLabel:     MoodLabel(0),
	}

	active := make(map[string]bool)
	for _, h := range habits {
		if h.IsActive {
			active[h.ID] = true
		}
	}
	d.ActiveHabits = len(active)

	done := make(map[string]bool)
	for _, c := range completions {
		if c.Date == today && c.Completed && active[c.HabitID] {
			done[c.HabitID] = true
		}
	}
	d.CompletedToday = len(done)

	// Newest first, ignoring entries dated after asOf.
	var past []models.JournalEntry
	for _, e := range entries {
		if e.Date <= today {
			past = append(past, e)
		}
	}
	sort.SliceStable(past, func(i, j int) bool { return past[i].Date > past[j].Date })
	if len(past) > 0 {
		latest := past[0]
		d.TodayHasEntry = latest.Date == today
		d.Mood = latest.FinalRating
		if d.Mood == 0 {
			d.Mood = latest.InitialRating
		}
		d.MoodLabel = MoodLabel(d.Mood)
	}
	d.RecentEntries = append(d.RecentEntries, past[:min(len(past), recentEntryCount)]...)

	for _, g := range goals {
		if !g.Completed {
			d.ActiveGoals = append(d.ActiveGoals, g)
		}
	}
	return d, nil
}

// MoodLabel describes a 0-5 mood rating.
func MoodLabel(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Great"
	case rating >= 3.5:
		return "Good"
	case rating >= 2.5:
		return "Okay"
	case rating >= 1.5:
		return "Low"
	case rating > 0:
		return "Rough"
	}
	return "Not rated"
}
