// Package metrics derives streaks, completion rates, trends and windowed
// mood comparisons from normalized records. Every function is pure: the
// reference day is passed in as asOf and nothing is read from storage.
package metrics

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
)

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

func trendOf(current, previous float64) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	}
	return TrendFlat
}

// Glyph returns a one-character arrow for t.
func (t Trend) Glyph() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	}
	return "→"
}

// HabitMetrics is the rating-trend view of a habit, built from the
// snapshots embedded in journal entries.
type HabitMetrics struct {
	CurrentRating  float64   `json:"currentRating"`
	PreviousRating float64   `json:"previousRating"`
	Trend          Trend     `json:"trend"`
	Streak         int       `json:"streak"`
	BestRating     float64   `json:"bestRating"`
	CompletionRate float64   `json:"completionRate"`
	RecentRatings  []float64 `json:"recentRatings"`
}

// HabitSummary is the completion-record view of a habit.
type HabitSummary struct {
	AverageRating  float64 `json:"averageRating"`
	CompletionRate float64 `json:"completionRate"`
	Streak         int     `json:"streak"`
	TotalEntries   int     `json:"totalEntries"`
}

// DayRatings compares mood before and after journaling across a window.
type DayRatings struct {
	Labels         []string  `json:"labels"`
	InitialRatings []float64 `json:"initialRatings"`
	FinalRatings   []float64 `json:"finalRatings"`
	AverageInitial float64   `json:"averageInitial"`
	AverageFinal   float64   `json:"averageFinal"`
	Improvement    float64   `json:"improvement"`
	Trend          Trend     `json:"trend"`
}

// HabitSeries holds one rating series per active habit, each aligned
// index-for-index with Labels.
type HabitSeries struct {
	Labels []string             `json:"labels"`
	Series map[string][]float64 `json:"series"`
}

// Window is the length in days of a trailing analytics window.
type Window int

const (
	WindowWeek      Window = constants.WindowWeek
	WindowFortnight Window = constants.WindowFortnight
	WindowMonth     Window = constants.WindowMonth
)

var Windows = []Window{WindowWeek, WindowFortnight, WindowMonth}

func (w Window) Days() int { return int(w) }

func (w Window) Valid() bool {
	switch w {
	case WindowWeek, WindowFortnight, WindowMonth:
		return true
	}
	return false
}

// Next cycles through the supported windows.
func (w Window) Next() Window {
	for i, candidate := range Windows {
		if candidate == w {
			return Windows[(i+1)%len(Windows)]
		}
	}
	return WindowWeek
}

func (w Window) String() string {
	return fmt.Sprintf("%dd", int(w))
}

// ParseWindow accepts "7", "7d", "14", "14d", "30" or "30d".
func ParseWindow(s string) (Window, error) {
	trimmed := s
	if n := len(trimmed); n > 0 && trimmed[n-1] == 'd' {
		trimmed = trimmed[:n-1]
	}
	days, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: %w", s, err)
	}
	w := Window(days)
	if !w.Valid() {
		return 0, fmt.Errorf("invalid window %q: must be one of 7, 14 or 30 days", s)
	}
	return w, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// day truncates t to its calendar date in t's own location and returns it
// as a UTC midnight so date arithmetic ignores DST.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// label formats a YYYY-MM-DD date for display, e.g. "Jan 2".
func label(date string) string {
	t, ok := parseDay(date)
	if !ok {
		return date
	}
	return t.Format(constants.LabelFormat)
}
