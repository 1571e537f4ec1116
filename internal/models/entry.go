package models

// EntrySchemaVersion is the current layout of stored journal entries.
// Version 0 entries use dayRating/reflectionRating instead of
// initialRating/finalRating.
const EntrySchemaVersion = 1

type Gratitude struct {
	Items               []string `json:"items"`
	SmallThings         []string `json:"smallThings"`
	PositiveExperiences []string `json:"positiveExperiences"`
}

type DailyReflection struct {
	Mood            float64 `json:"mood"`
	Feelings        string  `json:"feelings"`
	Accomplishments string  `json:"accomplishments"`
	Challenges      string  `json:"challenges"`
	Learnings       string  `json:"learnings"`
}

type Mindfulness struct {
	Exercises    []string `json:"exercises"`
	Effects      string   `json:"effects"`
	Observations string   `json:"observations"`
}

type StressManagement struct {
	Situations       []string `json:"situations"`
	CopingMechanisms []string `json:"copingMechanisms"`
	Effectiveness    string   `json:"effectiveness"`
}

type PersonalGrowth struct {
	SkillsGained        []string `json:"skillsGained"`
	QualitiesDeveloped  []string `json:"qualitiesDeveloped"`
	AreasForImprovement []string `json:"areasForImprovement"`
}

type GoalTracking struct {
	DailyGoals  []string `json:"dailyGoals"`
	WeeklyGoals []string `json:"weeklyGoals"`
	Progress    string   `json:"progress"`
	NextSteps   string   `json:"nextSteps"`
}

type Inspiration struct {
	Motivators  []string `json:"motivators"`
	Quotes      []string `json:"quotes"`
	ActionItems []string `json:"actionItems"`
}

type FinalReflection struct {
	Rating  float64 `json:"rating"`
	Summary string  `json:"summary"`
}

// JournalEntry is one user's record for one calendar day. Saving an entry
// for an existing (Date, UserID) pair replaces the previous one.
type JournalEntry struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"` // YYYY-MM-DD format
	UserID        int64           `json:"userId"`
	SchemaVersion int             `json:"schemaVersion"`
	Habits        []HabitSnapshot `json:"habits"`
	InitialRating float64         `json:"initialRating"` // mood before journaling
	FinalRating   float64         `json:"finalRating"`   // mood after reflection

	Gratitude        Gratitude        `json:"gratitude"`
	DailyReflection  DailyReflection  `json:"dailyReflection"`
	Mindfulness      Mindfulness      `json:"mindfulness"`
	StressManagement StressManagement `json:"stressManagement"`
	PersonalGrowth   PersonalGrowth   `json:"personalGrowth"`
	GoalTracking     GoalTracking     `json:"goalTracking"`
	Inspiration      Inspiration      `json:"inspiration"`
	FinalReflection  FinalReflection  `json:"finalReflection"`
}

// HabitRating returns the rating of the embedded snapshot for habitID.
func (e JournalEntry) HabitRating(habitID string) (float64, bool) {
	for _, h := range e.Habits {
		if h.ID == habitID {
			return h.Rating, true
		}
	}
	return 0, false
}
