package models

type GoalStep struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Goal is a longer-term target broken into steps.
type Goal struct {
	ID          string     `json:"id"`
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Deadline    string     `json:"deadline"` // YYYY-MM-DD format, empty when open-ended
	Progress    float64    `json:"progress"` // 0-100
	Steps       []GoalStep `json:"steps"`
	Completed   bool       `json:"completed"`
}
