// Package render formats journal data and metrics for the terminal.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/analytics"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/models"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values scaled against the rating scale. Zero renders as
// the lowest block.
func Sparkline(values []float64) string {
	var b strings.Builder
	top := float64(len(sparkBlocks) - 1)
	for _, v := range values {
		v = math.Max(constants.MinRating, math.Min(v, constants.MaxRating))
		idx := int(math.Round(v / constants.MaxRating * top))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// Trend renders an arrow colored by direction.
func Trend(t metrics.Trend) string {
	switch t {
	case metrics.TrendUp:
		return upStyle.Render(t.Glyph())
	case metrics.TrendDown:
		return downStyle.Render(t.Glyph())
	}
	return flatStyle.Render(t.Glyph())
}

// Stars renders a rating as five stars.
func Stars(rating float64) string {
	n := int(math.Round(math.Max(0, math.Min(rating, constants.MaxRating))))
	return strings.Repeat("★", n) + strings.Repeat("☆", constants.MaxRating-n)
}

func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func Rating(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Relative formats t as "3 days ago".
func Relative(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// RelativeDate formats a YYYY-MM-DD date relative to asOf.
func RelativeDate(date string, asOf time.Time) string {
	d, err := time.ParseInLocation(constants.DateFormat, date, asOf.Location())
	if err != nil {
		return date
	}
	y, m, dd := asOf.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, asOf.Location())
	switch days := int(today.Sub(d).Hours() / 24); {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return humanize.RelTime(d, today, "ago", "from now")
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Habits lists habits with their target and cadence.
func Habits(habits []models.Habit) string {
	t := newTable("ID", "Name", "Target", "Frequency", "Category", "Status", "Updated")
	for _, h := range habits {
		status := "active"
		if !h.IsActive {
			status = "archived"
		}
		t.Row(
			shortID(h.ID),
			h.Name,
			fmt.Sprintf("%s %s", humanize.Ftoa(h.Target.Value), h.Target.Unit),
			string(h.Frequency),
			string(h.Category),
			status,
			Relative(h.UpdatedAt),
		)
	}
	return t.Render()
}

// HabitReport shows both metric views of every habit.
func HabitReport(habits []analytics.HabitReport) string {
	t := newTable("Habit", "Rating", "Trend", "Streak", "Best", "≥3 rate", "Recent", "Done streak", "30d rate", "Logged", "Avg")
	for _, h := range habits {
		t.Row(
			h.Habit.Name,
			Rating(h.Metrics.CurrentRating),
			Trend(h.Metrics.Trend),
			fmt.Sprintf("%d", h.Metrics.Streak),
			Rating(h.Metrics.BestRating),
			Percent(h.Metrics.CompletionRate),
			Sparkline(h.Metrics.RecentRatings),
			fmt.Sprintf("%d days", h.Summary.Streak),
			Percent(h.Summary.CompletionRate),
			humanize.Comma(int64(h.Summary.TotalEntries)),
			fmt.Sprintf("%s (%s)", Rating(h.AverageRating), h.Performance),
		)
	}
	return t.Render()
}

// DayRatings shows the before/after mood comparison for a window.
func DayRatings(r metrics.DayRatings, window metrics.Window) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", TitleStyle.Render(fmt.Sprintf("Mood over the last %d days", window.Days())))
	if len(r.Labels) == 0 {
		b.WriteString(MutedStyle.Render("No entries in this window."))
		return b.String()
	}

	t := newTable("Day", "Before", "After", "Change")
	for i, label := range r.Labels {
		delta := r.FinalRatings[i] - r.InitialRatings[i]
		t.Row(label, Rating(r.InitialRatings[i]), Rating(r.FinalRatings[i]), fmt.Sprintf("%+.1f", delta))
	}
	b.WriteString(t.Render())
	fmt.Fprintf(&b, "\nBefore %s  %s\n", Sparkline(r.InitialRatings), Rating(r.AverageInitial))
	fmt.Fprintf(&b, "After  %s  %s\n", Sparkline(r.FinalRatings), Rating(r.AverageFinal))
	fmt.Fprintf(&b, "Improvement %+.1f %s", r.Improvement, Trend(r.Trend))
	return b.String()
}

// Series draws one sparkline per habit, aligned to the window labels.
func Series(s metrics.HabitSeries, habits []models.Habit) string {
	if len(s.Labels) == 0 {
		return MutedStyle.Render("No entries in this window.")
	}
	width := 0
	for _, h := range habits {
		width = max(width, lipgloss.Width(h.Name))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %s → %s\n", width, "", s.Labels[0], s.Labels[len(s.Labels)-1])
	for _, h := range habits {
		values, ok := s.Series[h.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-*s  %s\n", width, h.Name, Sparkline(values))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Report renders the whole analytics report.
func Report(r analytics.Report) string {
	habits := make([]models.Habit, len(r.Habits))
	for i, h := range r.Habits {
		habits[i] = h.Habit
	}
	sections := []string{
		TitleStyle.Render("Habits"),
		HabitReport(r.Habits),
		DayRatings(r.DayRatings, r.Window),
		TitleStyle.Render("Habit ratings"),
		Series(r.Series, habits),
		TitleStyle.Render("Goals"),
		fmt.Sprintf("%d active, %d completed, %s average progress",
			r.Goals.Active, r.Goals.Completed, Percent(r.Goals.AverageProgress)),
	}
	return strings.Join(sections, "\n")
}

// Dashboard renders the start screen summary.
func Dashboard(d analytics.Dashboard) string {
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(fmt.Sprintf("Journal streak\n%s", TitleStyle.Render(humanize.Comma(int64(d.JournalStreak))+" days"))),
		boxStyle.Render(fmt.Sprintf("Habits today\n%s", TitleStyle.Render(fmt.Sprintf("%d/%d", d.CompletedToday, d.ActiveHabits)))),
		boxStyle.Render(fmt.Sprintf("Mood\n%s", TitleStyle.Render(d.MoodLabel))),
		boxStyle.Render(fmt.Sprintf("Entries\n%s", TitleStyle.Render(humanize.Comma(int64(d.TotalEntries))))),
	)

	var b strings.Builder
	b.WriteString(stats)
	b.WriteString("\n")
	if !d.TodayHasEntry {
		b.WriteString(MutedStyle.Render("No entry for today yet. Run 'daybook entry write'."))
		b.WriteString("\n")
	}

	b.WriteString(TitleStyle.Render("Recent entries"))
	b.WriteString("\n")
	if len(d.RecentEntries) == 0 {
		b.WriteString(MutedStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, e := range d.RecentEntries {
		fmt.Fprintf(&b, "  %s  %s → %s  %s\n", e.Date, Stars(e.InitialRating), Stars(e.FinalRating),
			MutedStyle.Render(RelativeDate(e.Date, d.AsOf)))
	}

	b.WriteString(TitleStyle.Render("Active goals"))
	b.WriteString("\n")
	if len(d.ActiveGoals) == 0 {
		b.WriteString(MutedStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, g := range d.ActiveGoals {
		fmt.Fprintf(&b, "  %s %s", g.Title, Percent(g.Progress))
		if g.Deadline != "" {
			fmt.Fprintf(&b, "  due %s", RelativeDate(g.Deadline, d.AsOf))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Goals lists goals with their steps.
func Goals(goals []models.Goal) string {
	if len(goals) == 0 {
		return "No goals found"
	}
	var b strings.Builder
	for _, g := range goals {
		check := "[ ]"
		if g.Completed {
			check = "[x]"
		}
		fmt.Fprintf(&b, "%s %s %s  %s\n", check, TitleStyle.Render(g.Title), MutedStyle.Render(shortID(g.ID)), Percent(g.Progress))
		if g.Description != "" {
			fmt.Fprintf(&b, "    %s\n", g.Description)
		}
		for i, s := range g.Steps {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "    %d. [%s] %s %s\n", i+1, mark, s.Description, MutedStyle.Render(shortID(s.ID)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Entry renders one journal entry in full.
func Entry(e models.JournalEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", TitleStyle.Render(e.Date))
	fmt.Fprintf(&b, "Mood before %s  after %s\n", Stars(e.InitialRating), Stars(e.FinalRating))

	if len(e.Habits) > 0 {
		b.WriteString("\nHabits\n")
		for _, h := range e.Habits {
			fmt.Fprintf(&b, "  %-20s %s\n", h.Name, Stars(h.Rating))
		}
	}

	section := func(title string, lines ...string) {
		var body []string
		for _, l := range lines {
			if strings.TrimSpace(l) != "" {
				body = append(body, l)
			}
		}
		if len(body) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", title)
		for _, l := range body {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	bullets := func(items []string) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = "• " + item
		}
		return out
	}

	section("Gratitude", bullets(e.Gratitude.Items)...)
	r := e.DailyReflection
	section("Reflection", r.Feelings, r.Accomplishments, r.Challenges, r.Learnings)
	section("Mindfulness", append(bullets(e.Mindfulness.Exercises), e.Mindfulness.Observations)...)
	section("Stress", append(bullets(e.StressManagement.CopingMechanisms), e.StressManagement.Effectiveness)...)
	section("Growth", bullets(e.PersonalGrowth.SkillsGained)...)
	section("Goals", append(bullets(e.GoalTracking.DailyGoals), e.GoalTracking.NextSteps)...)
	section("Inspiration", bullets(e.Inspiration.Quotes)...)
	section("Summary", e.FinalReflection.Summary)
	return strings.TrimRight(b.String(), "\n")
}

// Entries lists entries one per line.
func Entries(entries []models.JournalEntry, asOf time.Time) string {
	if len(entries) == 0 {
		return "No entries found"
	}
	t := newTable("Date", "When", "Before", "After", "Habits")
	for _, e := range entries {
		t.Row(e.Date, RelativeDate(e.Date, asOf), Stars(e.InitialRating), Stars(e.FinalRating), fmt.Sprintf("%d", len(e.Habits)))
	}
	return t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
