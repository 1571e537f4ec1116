package normalize

import (
	"github.com/julianstephens/daybook/internal/models"
)

const defaultUnit = "times"

// Habit coerces raw into a canonical habit.
func (n *Normalizer) Habit(raw map[string]any) models.Habit {
	now := n.nowUTC()
	return models.Habit{
		ID:          n.idOr(raw, "id"),
		UserID:      userID(raw, "userId"),
		Name:        str(raw, "name", ""),
		Description: str(raw, "description", ""),
		Target:      target(object(raw, "target")),
		Frequency:   frequency(raw),
		Category:    category(raw),
		IsActive:    boolean(raw, "isActive", true),
		CreatedAt:   timestamp(raw, "createdAt", now),
		UpdatedAt:   timestamp(raw, "updatedAt", now),
		Rating:      float(raw, "rating", 0),
	}
}

// Snapshot coerces raw into a habit snapshot embedded in an entry.
func (n *Normalizer) Snapshot(raw map[string]any) models.HabitSnapshot {
	h := n.Habit(raw)
	return h.Snapshot(h.Rating)
}

// Completion coerces raw into a canonical completion record.
func (n *Normalizer) Completion(raw map[string]any) models.HabitCompletion {
	now := n.nowUTC()
	return models.HabitCompletion{
		ID:        n.idOr(raw, "id"),
		HabitID:   id(raw, "habitId"),
		UserID:    userID(raw, "userId"),
		Date:      date(raw, "date", today(now)),
		Completed: boolean(raw, "completed", false),
		Value:     optionalFloat(raw, "value"),
		Notes:     optionalStr(raw, "notes"),
		CreatedAt: timestamp(raw, "createdAt", now),
	}
}

func target(raw map[string]any) models.Target {
	value := float(raw, "value", 1)
	if value <= 0 {
		value = 1
	}
	return models.Target{
		Value: value,
		Unit:  nonEmptyStr(raw, "unit", defaultUnit),
	}
}

func frequency(raw map[string]any) models.Frequency {
	f := models.Frequency(str(raw, "frequency", ""))
	if !f.Valid() {
		return models.FrequencyDaily
	}
	return f
}

func category(raw map[string]any) models.Category {
	c := models.Category(str(raw, "category", ""))
	if !c.Valid() {
		return models.CategoryOther
	}
	return c
}

// Habit normalizes raw with the default clock and id source.
func Habit(raw map[string]any) models.Habit { return std.Habit(raw) }

// Completion normalizes raw with the default clock and id source.
func Completion(raw map[string]any) models.HabitCompletion { return std.Completion(raw) }
