package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/render"
)

type HabitAddCmd struct {
	Name        string  `arg:"" help:"Habit name."`
	Description string  `short:"d" help:"What the habit is about."`
	Target      float64 `short:"t" help:"Target amount per period." default:"1"`
	Unit        string  `short:"u" help:"Unit of the target." default:"times"`
	Frequency   string  `short:"f" help:"How often (daily|weekly|monthly)." default:"daily" enum:"daily,weekly,monthly"`
	Category    string  `short:"c" help:"Category (health|productivity|mindfulness|personal|other)." default:"other" enum:"health,productivity,mindfulness,personal,other"`
}

func (c *HabitAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if c.Target <= 0 {
		return fmt.Errorf("target must be positive")
	}
	return nil
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.Journal.AddHabit(models.Habit{
		UserID:      ctx.UserID,
		Name:        strings.TrimSpace(c.Name),
		Description: c.Description,
		Target:      models.Target{Value: c.Target, Unit: c.Unit},
		Frequency:   models.Frequency(c.Frequency),
		Category:    models.Category(c.Category),
		IsActive:    true,
	})
	if err != nil {
		return err
	}

	ctx.printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Journal.ListHabits(ctx.UserID)
	if err != nil {
		return err
	}
	if !c.All {
		active := habits[:0]
		for _, h := range habits {
			if h.IsActive {
				active = append(active, h)
			}
		}
		habits = active
	}
	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	ctx.println(render.Habits(habits))
	return nil
}

type HabitEditCmd struct {
	Habit       string   `arg:"" help:"Habit id, id prefix or name."`
	Name        *string  `help:"New name."`
	Description *string  `help:"New description."`
	Target      *float64 `help:"New target amount."`
	Unit        *string  `help:"New target unit."`
	Frequency   *string  `help:"New frequency (daily|weekly|monthly)."`
	Category    *string  `help:"New category."`
	Archive     bool     `help:"Archive the habit." xor:"active"`
	Restore     bool     `help:"Reactivate an archived habit." xor:"active"`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.Name != nil {
		if strings.TrimSpace(*c.Name) == "" {
			return fmt.Errorf("habit name cannot be empty")
		}
		h.Name = strings.TrimSpace(*c.Name)
	}
	if c.Description != nil {
		h.Description = *c.Description
	}
	if c.Target != nil {
		if *c.Target <= 0 {
			return fmt.Errorf("target must be positive")
		}
		h.Target.Value = *c.Target
	}
	if c.Unit != nil {
		h.Target.Unit = *c.Unit
	}
	if c.Frequency != nil {
		f := models.Frequency(*c.Frequency)
		if !f.Valid() {
			return fmt.Errorf("invalid frequency: %s", *c.Frequency)
		}
		h.Frequency = f
	}
	if c.Category != nil {
		cat := models.Category(*c.Category)
		if !cat.Valid() {
			return fmt.Errorf("invalid category: %s", *c.Category)
		}
		h.Category = cat
	}
	if c.Archive {
		h.IsActive = false
	}
	if c.Restore {
		h.IsActive = true
	}

	if _, err := ctx.Journal.UpdateHabit(h); err != nil {
		return err
	}
	ctx.printf("Updated habit: %s\n", h.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteHabit(h.ID); err != nil {
		return err
	}
	// Snapshots in past entries keep the habit; only the definition goes.
	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitCompleteCmd struct {
	Habit string   `arg:"" help:"Habit id, id prefix or name."`
	Date  string   `help:"Day to mark (YYYY-MM-DD, today, yesterday)." default:"today"`
	Value *float64 `help:"Amount done, in the habit's unit."`
	Note  *string  `help:"Free-form note."`
}

func (c *HabitCompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.Journal.LogHabit(ctx.UserID, h.ID, date, nil, c.Value, c.Note); err != nil {
		return err
	}
	ctx.printf("✓ %s done on %s\n", h.Name, date)
	return nil
}

type HabitUncompleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `help:"Day to clear (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *HabitUncompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	n, err := ctx.Journal.RemoveCompletionsOn(h.ID, date)
	if err != nil {
		return err
	}
	if n == 0 {
		ctx.printf("%s was not marked done on %s\n", h.Name, date)
		return nil
	}
	ctx.printf("Cleared %s on %s\n", h.Name, date)
	return nil
}

type HabitLogCmd struct {
	Habit  string   `arg:"" help:"Habit id, id prefix or name."`
	Rating string   `arg:"" help:"Rating from 0 to 5."`
	Date   string   `help:"Day to log (YYYY-MM-DD, today, yesterday)." default:"today"`
	Value  *float64 `help:"Amount done, in the habit's unit."`
	Note   *string  `help:"Free-form note."`
}

func (c *HabitLogCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	rating, err := parseRating(c.Rating)
	if err != nil {
		return err
	}
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.Journal.LogHabit(ctx.UserID, h.ID, date, &rating, c.Value, c.Note); err != nil {
		return err
	}
	ctx.printf("✓ %s logged on %s: %s\n", h.Name, date, render.Stars(rating))
	return nil
}

type HabitHistoryCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	From  string `help:"First day (YYYY-MM-DD). Defaults to 30 days ago."`
	To    string `help:"Last day (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *HabitHistoryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	to, err := ctx.resolveDate(c.To)
	if err != nil {
		return err
	}
	from := ctx.Now().AddDate(0, 0, -(constants.CompletionWindowDays - 1)).Format(constants.DateFormat)
	if c.From != "" {
		if from, err = ctx.resolveDate(c.From); err != nil {
			return err
		}
	}

	completions, err := ctx.Journal.ListCompletionsInRange(h.ID, from, to)
	if err != nil {
		return err
	}
	all, err := ctx.Journal.ListCompletions(h.ID)
	if err != nil {
		return err
	}
	summary := metrics.ComputeCompletionSummary(h, all, ctx.Now())

	ctx.printf("%s  %s → %s\n", render.TitleStyle.Render(h.Name), from, to)
	if len(completions) == 0 {
		ctx.println("  no completions")
	}
	for _, comp := range completions {
		line := "  " + comp.Date
		if comp.Value != nil {
			line += fmt.Sprintf("  %v %s", *comp.Value, h.Target.Unit)
		}
		if comp.Notes != nil && *comp.Notes != "" {
			line += "  " + render.MutedStyle.Render(*comp.Notes)
		}
		ctx.println(line)
	}
	ctx.printf("\nStreak %d days | %s over the last %d days | %d completions in total\n",
		summary.Streak, render.Percent(summary.CompletionRate), constants.CompletionWindowDays, summary.TotalEntries)
	return nil
}
