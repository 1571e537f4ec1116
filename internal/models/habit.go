package models

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryProductivity Category = "productivity"
	CategoryMindfulness  Category = "mindfulness"
	CategoryPersonal     Category = "personal"
	CategoryOther        Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHealth, CategoryProductivity, CategoryMindfulness, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// Target is the amount a habit aims for per period, e.g. 8 "glasses".
type Target struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Habit is the canonical store record of a tracked behavior.
type Habit struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Target      Target    `json:"target"`
	Frequency   Frequency `json:"frequency"`
	Category    Category  `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// Rating is only meaningful transiently; the canonical record keeps the
	// last value the user picked.
	Rating float64 `json:"rating"`
}

// HabitSnapshot is a value copy of a Habit embedded in a journal entry as it
// was when the entry was saved. Later edits to the Habit never reach it.
type HabitSnapshot struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Target      Target    `json:"target"`
	Frequency   Frequency `json:"frequency"`
	Category    Category  `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Rating      float64   `json:"rating"`
}

// Snapshot copies the habit into an entry-embeddable value carrying rating.
func (h Habit) Snapshot(rating float64) HabitSnapshot {
	return HabitSnapshot{
		ID:          h.ID,
		UserID:      h.UserID,
		Name:        h.Name,
		Description: h.Description,
		Target:      h.Target,
		Frequency:   h.Frequency,
		Category:    h.Category,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
		Rating:      rating,
	}
}
