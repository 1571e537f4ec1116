package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/render"
)

type GoalAddCmd struct {
	Title       string   `arg:"" help:"Goal title."`
	Description string   `short:"d" help:"What the goal is about."`
	Category    string   `short:"c" help:"Free-form category."`
	Deadline    string   `help:"Target date (YYYY-MM-DD)."`
	Steps       []string `short:"s" help:"A step towards the goal. Repeatable."`
}

func (c *GoalAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("goal title cannot be empty")
	}
	return nil
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	deadline := ""
	if c.Deadline != "" {
		var err error
		if deadline, err = ctx.resolveDate(c.Deadline); err != nil {
			return err
		}
	}
	steps := make([]models.GoalStep, 0, len(c.Steps))
	for _, s := range c.Steps {
		steps = append(steps, models.GoalStep{Description: s})
	}

	g, err := ctx.Journal.SaveGoal(models.Goal{
		UserID:      ctx.UserID,
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Category:    c.Category,
		Deadline:    deadline,
		Steps:       steps,
	})
	if err != nil {
		return err
	}
	ctx.printf("Added goal: %s (%s)\n", g.Title, g.ID)
	return nil
}

type GoalListCmd struct {
	All bool `short:"a" help:"Include completed goals."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	goals, err := ctx.Journal.ListGoals(ctx.UserID)
	if err != nil {
		return err
	}
	if !c.All {
		open := goals[:0]
		for _, g := range goals {
			if !g.Completed {
				open = append(open, g)
			}
		}
		goals = open
	}
	ctx.println(render.Goals(goals))
	return nil
}

type GoalStepCmd struct {
	Goal        string `arg:"" help:"Goal id, id prefix or title."`
	Description string `arg:"" help:"Step description."`
}

func (c *GoalStepCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	g, err := ctx.findGoal(c.Goal)
	if err != nil {
		return err
	}
	g, err = ctx.Journal.AddGoalStep(g.ID, c.Description)
	if err != nil {
		return err
	}
	ctx.printf("Added step %d to %s (%s done)\n", len(g.Steps), g.Title, render.Percent(g.Progress))
	return nil
}

type GoalToggleCmd struct {
	Goal string `arg:"" help:"Goal id, id prefix or title."`
	Step string `arg:"" help:"Step number (1-based) or step id."`
}

func (c *GoalToggleCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	g, err := ctx.findGoal(c.Goal)
	if err != nil {
		return err
	}
	stepID := c.Step
	var n int
	if _, err := fmt.Sscanf(c.Step, "%d", &n); err == nil && n >= 1 && n <= len(g.Steps) {
		stepID = g.Steps[n-1].ID
	}
	g, err = ctx.Journal.ToggleGoalStep(g.ID, stepID)
	if err != nil {
		return err
	}
	ctx.printf("%s is %s done\n", g.Title, render.Percent(g.Progress))
	return nil
}

type GoalCompleteCmd struct {
	Goal   string `arg:"" help:"Goal id, id prefix or title."`
	Reopen bool   `help:"Mark the goal as open again."`
}

func (c *GoalCompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	g, err := ctx.findGoal(c.Goal)
	if err != nil {
		return err
	}
	// Goals with steps are complete exactly when every step is.
	if len(g.Steps) > 0 {
		if c.Reopen {
			return fmt.Errorf("goal progress follows its steps, toggle a step to reopen it")
		}
		for i := range g.Steps {
			g.Steps[i].Completed = true
		}
	}
	g.Completed = !c.Reopen
	if _, err := ctx.Journal.SaveGoal(g); err != nil {
		return err
	}
	if c.Reopen {
		ctx.printf("Reopened goal: %s\n", g.Title)
	} else {
		ctx.printf("✓ Completed goal: %s\n", g.Title)
	}
	return nil
}

type GoalDeleteCmd struct {
	Goal string `arg:"" help:"Goal id, id prefix or title."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	g, err := ctx.findGoal(c.Goal)
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteGoal(g.ID); err != nil {
		return err
	}
	ctx.printf("Deleted goal: %s\n", g.Title)
	return nil
}
