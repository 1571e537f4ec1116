package journal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage"
)

// Keys of a browser localStorage export.
const (
	exportHabits      = "app_habits"
	exportCompletions = "habit_completions"
	exportEntries     = "journalEntries"
	exportGoals       = "goals"
)

// ImportResult counts the records written per kind and the ones skipped
// because they were not JSON objects.
type ImportResult struct {
	Habits      int
	Completions int
	Entries     int
	Goals       int
	Skipped     int
}

func (r ImportResult) Total() int {
	return r.Habits + r.Completions + r.Entries + r.Goals
}

// Import reads a localStorage export and stores every record after
// normalizing it. Values may be arrays or JSON-encoded strings of arrays,
// which is how localStorage holds them. Missing keys are ignored.
func (s *Service) Import(r io.Reader) (ImportResult, error) {
	var export map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse export: %w", err)
	}

	var result ImportResult
	write := func(key string, counter *int, store func(map[string]any) error) error {
		items, err := exportItems(export[key])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		for i, item := range items {
			var raw map[string]any
			if err := json.Unmarshal(item, &raw); err != nil || raw == nil {
				logger.Warn("skipping malformed import record", "key", key, "index", i)
				result.Skipped++
				continue
			}
			if err := store(raw); err != nil {
				return err
			}
			*counter++
		}
		return nil
	}

	steps := []struct {
		key     string
		counter *int
		store   func(map[string]any) error
	}{
		{exportHabits, &result.Habits, func(raw map[string]any) error {
			h := s.norm.Habit(raw)
			return s.put(storage.KindHabits, h.ID, h)
		}},
		{exportCompletions, &result.Completions, func(raw map[string]any) error {
			c := s.norm.Completion(raw)
			return s.put(storage.KindCompletions, c.ID, c)
		}},
		{exportEntries, &result.Entries, func(raw map[string]any) error {
			e := s.norm.Entry(raw)
			return s.put(storage.KindEntries, entryKey(e.UserID, e.Date), e)
		}},
		{exportGoals, &result.Goals, func(raw map[string]any) error {
			g := s.norm.Goal(raw)
			return s.put(storage.KindGoals, g.ID, g)
		}},
	}
	for _, step := range steps {
		if err := write(step.key, step.counter, step.store); err != nil {
			return result, err
		}
	}

	logger.Info("import finished", "habits", result.Habits, "completions", result.Completions,
		"entries", result.Entries, "goals", result.Goals, "skipped", result.Skipped)
	return result, nil
}

func exportItems(value json.RawMessage) ([]json.RawMessage, error) {
	if len(value) == 0 || string(value) == "null" {
		return nil, nil
	}
	var encoded string
	if err := json.Unmarshal(value, &encoded); err == nil {
		value = json.RawMessage(encoded)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, err
	}
	return items, nil
}
