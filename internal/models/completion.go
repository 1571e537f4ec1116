package models

import "time"

// HabitCompletion records whether a habit was performed on a given day.
// HabitID is a lookup key into the habit set, not an ownership link.
type HabitCompletion struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	UserID    int64     `json:"userId"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	Completed bool      `json:"completed"`
	Value     *float64  `json:"value,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
