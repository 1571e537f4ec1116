package metrics

import (
	"math"

	"github.com/julianstephens/daybook/internal/models"
)

// GoalProgress is the whole percentage of completed steps, 0 without steps.
func GoalProgress(steps []models.GoalStep) float64 {
	if len(steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range steps {
		if s.Completed {
			done++
		}
	}
	return math.Round(float64(done) / float64(len(steps)) * 100)
}

type GoalSummary struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	Active          int     `json:"active"`
	AverageProgress float64 `json:"averageProgress"`
}

func SummarizeGoals(goals []models.Goal) GoalSummary {
	s := GoalSummary{Total: len(goals)}
	progress := make([]float64, 0, len(goals))
	for _, g := range goals {
		if g.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		progress = append(progress, g.Progress)
	}
	s.AverageProgress = round1(mean(progress))
	return s
}
