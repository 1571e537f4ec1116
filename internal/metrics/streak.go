package metrics

import (
	"time"

	"github.com/julianstephens/daybook/internal/models"
)

// EntryStreak counts consecutive journaling days ending at the latest entry
// on or before asOf. A latest entry older than yesterday means the streak
// is broken and 0 is returned.
func EntryStreak(entries []models.JournalEntry, asOf time.Time) int {
	today := day(asOf)
	days := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		if d, ok := parseDay(e.Date); ok && !d.After(today) {
			days[d] = true
		}
	}

	cursor := today
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
