package journal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

// entryKey is the storage id of the entry for (userID, date). Saving
// twice for the same pair overwrites the first record.
func entryKey(userID int64, date string) string {
	return fmt.Sprintf("%d:%s", userID, date)
}

// ListEntries returns the user's entries ordered by date.
func (s *Service) ListEntries(userID int64) ([]models.JournalEntry, error) {
	raws, err := s.list(storage.KindEntries)
	if err != nil {
		return nil, err
	}
	entries := make([]models.JournalEntry, 0, len(raws))
	for _, raw := range raws {
		e := s.norm.Entry(raw)
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

func (s *Service) GetEntry(userID int64, date string) (models.JournalEntry, error) {
	raw, err := s.get(storage.KindEntries, entryKey(userID, date), ErrEntryNotFound)
	if err != nil {
		return models.JournalEntry{}, err
	}
	return s.norm.Entry(raw), nil
}

// SaveEntry stores e, replacing any entry the same user has for that date.
// A replaced entry keeps its original id.
func (s *Service) SaveEntry(e models.JournalEntry) (models.JournalEntry, error) {
	entry := s.norm.Entry(canonical(e))
	if existing, err := s.GetEntry(entry.UserID, entry.Date); err == nil {
		entry.ID = existing.ID
	}
	if err := s.put(storage.KindEntries, entryKey(entry.UserID, entry.Date), entry); err != nil {
		return models.JournalEntry{}, err
	}
	return entry, nil
}

func (s *Service) DeleteEntry(userID int64, date string) error {
	return s.delete(storage.KindEntries, entryKey(userID, date), ErrEntryNotFound)
}

// BuildEntry prepares the entry for date: the saved entry if there is one,
// otherwise a blank one. Its habit list is refreshed from the user's
// current habits. Each snapshot takes its rating from ratings, then from
// the saved entry, then 0.
func (s *Service) BuildEntry(userID int64, date string, ratings map[string]float64) (models.JournalEntry, error) {
	entry, err := s.GetEntry(userID, date)
	if err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			return models.JournalEntry{}, err
		}
		entry = s.norm.Entry(map[string]any{"userId": userID, "date": date})
		entry.ID = ""
	}

	habits, err := s.ListActiveHabits(userID)
	if err != nil {
		return models.JournalEntry{}, err
	}
	snapshots := make([]models.HabitSnapshot, 0, len(habits))
	for _, h := range habits {
		rating, ok := ratings[h.ID]
		if !ok {
			rating, _ = entry.HabitRating(h.ID)
		}
		snapshots = append(snapshots, h.Snapshot(rating))
	}
	entry.Habits = snapshots
	return entry, nil
}
