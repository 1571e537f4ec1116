package normalize

import (
	"time"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/models"
)

// Entry coerces raw into a canonical journal entry, upgrading legacy
// layouts first.
func (n *Normalizer) Entry(raw map[string]any) models.JournalEntry {
	raw, version := upgradeEntry(raw)

	snapshots := objects(raw, "habits")
	habits := make([]models.HabitSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		habits = append(habits, n.Snapshot(s))
	}

	reflection := object(raw, "dailyReflection")
	final := object(raw, "finalReflection")
	gratitude := object(raw, "gratitude")
	mindfulness := object(raw, "mindfulness")
	stress := object(raw, "stressManagement")
	growth := object(raw, "personalGrowth")
	goals := object(raw, "goalTracking")
	inspiration := object(raw, "inspiration")

	return models.JournalEntry{
		ID:            n.idOr(raw, "id"),
		Date:          date(raw, "date", today(n.nowUTC())),
		UserID:        userID(raw, "userId"),
		SchemaVersion: version,
		Habits:        habits,
		InitialRating: float(raw, "initialRating", 0),
		FinalRating:   float(raw, "finalRating", 0),
		Gratitude: models.Gratitude{
			Items:               strs(gratitude, "items"),
			SmallThings:         strs(gratitude, "smallThings"),
			PositiveExperiences: strs(gratitude, "positiveExperiences"),
		},
		DailyReflection: models.DailyReflection{
			Mood:            float(reflection, "mood", 0),
			Feelings:        str(reflection, "feelings", ""),
			Accomplishments: str(reflection, "accomplishments", ""),
			Challenges:      str(reflection, "challenges", ""),
			Learnings:       str(reflection, "learnings", ""),
		},
		Mindfulness: models.Mindfulness{
			Exercises:    strs(mindfulness, "exercises"),
			Effects:      str(mindfulness, "effects", ""),
			Observations: str(mindfulness, "observations", ""),
		},
		StressManagement: models.StressManagement{
			Situations:       strs(stress, "situations"),
			CopingMechanisms: strs(stress, "copingMechanisms"),
			Effectiveness:    str(stress, "effectiveness", ""),
		},
		PersonalGrowth: models.PersonalGrowth{
			SkillsGained:        strs(growth, "skillsGained"),
			QualitiesDeveloped:  strs(growth, "qualitiesDeveloped"),
			AreasForImprovement: strs(growth, "areasForImprovement"),
		},
		GoalTracking: models.GoalTracking{
			DailyGoals:  strs(goals, "dailyGoals"),
			WeeklyGoals: strs(goals, "weeklyGoals"),
			Progress:    str(goals, "progress", ""),
			NextSteps:   str(goals, "nextSteps", ""),
		},
		Inspiration: models.Inspiration{
			Motivators:  strs(inspiration, "motivators"),
			Quotes:      strs(inspiration, "quotes"),
			ActionItems: strs(inspiration, "actionItems"),
		},
		FinalReflection: models.FinalReflection{
			Rating:  float(final, "rating", 0),
			Summary: str(final, "summary", ""),
		},
	}
}

func today(now time.Time) string {
	return now.Format(constants.DateFormat)
}

// Entry normalizes raw with the default clock and id source.
func Entry(raw map[string]any) models.JournalEntry { return std.Entry(raw) }
