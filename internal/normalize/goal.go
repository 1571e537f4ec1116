package normalize

import (
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/models"
)

// Goal coerces raw into a canonical goal. Progress is derived from the
// steps when there are any.
func (n *Normalizer) Goal(raw map[string]any) models.Goal {
	rawSteps := objects(raw, "steps")
	steps := make([]models.GoalStep, 0, len(rawSteps))
	for _, s := range rawSteps {
		steps = append(steps, models.GoalStep{
			ID:          n.idOr(s, "id"),
			Description: str(s, "description", ""),
			Completed:   boolean(s, "completed", false),
		})
	}

	g := models.Goal{
		ID:          n.idOr(raw, "id"),
		UserID:      userID(raw, "userId"),
		Title:       str(raw, "title", ""),
		Description: str(raw, "description", ""),
		Category:    str(raw, "category", ""),
		Deadline:    date(raw, "deadline", ""),
		Steps:       steps,
	}
	if len(steps) > 0 {
		g.Progress = metrics.GoalProgress(steps)
		g.Completed = g.Progress == 100
		return g
	}
	g.Progress = min(max(float(raw, "progress", 0), 0), 100)
	g.Completed = boolean(raw, "completed", false)
	return g
}

// Goal normalizes raw with the default clock and id source.
func Goal(raw map[string]any) models.Goal { return std.Goal(raw) }
