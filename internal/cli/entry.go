package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/render"
)

type EntryWriteCmd struct {
	Date            string   `arg:"" optional:"" help:"Day of the entry (YYYY-MM-DD, today, yesterday)." default:"today"`
	Before          *float64 `help:"Mood before journaling (0-5)."`
	After           *float64 `help:"Mood after reflecting (0-5)."`
	Rate            []string `short:"r" help:"Habit rating as habit=rating. Repeatable."`
	Gratitude       []string `short:"g" help:"Something you are grateful for. Repeatable."`
	Feelings        string   `help:"How the day felt."`
	Accomplishments string   `help:"What you got done."`
	Challenges      string   `help:"What was hard."`
	Learnings       string   `help:"What you learned."`
	Summary         string   `help:"Closing thoughts."`
	NoForm          bool     `help:"Save the flags as given without the interactive form."`
}

func (c *EntryWriteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	ratings, err := ctx.parseHabitRatings(c.Rate)
	if err != nil {
		return err
	}
	entry, err := ctx.Journal.BuildEntry(ctx.UserID, date, ratings)
	if err != nil {
		return err
	}
	if err := c.applyFlags(&entry); err != nil {
		return err
	}

	if !c.NoForm && isatty.IsTerminal(os.Stdin.Fd()) {
		fm := newEntryFormModel(entry)
		if err := newEntryForm(fm, entry.Habits).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.println("Entry discarded.")
				return nil
			}
			return err
		}
		if err := fm.apply(&entry); err != nil {
			return err
		}
	}

	saved, err := ctx.Journal.SaveEntry(entry)
	if err != nil {
		return err
	}
	ctx.printf("✓ Saved entry for %s (mood %s → %s)\n",
		saved.Date, render.Rating(saved.InitialRating), render.Rating(saved.FinalRating))
	return nil
}

func (c *EntryWriteCmd) applyFlags(e *models.JournalEntry) error {
	if c.Before != nil {
		r, err := parseRating(fmt.Sprint(*c.Before))
		if err != nil {
			return err
		}
		e.InitialRating = r
	}
	if c.After != nil {
		r, err := parseRating(fmt.Sprint(*c.After))
		if err != nil {
			return err
		}
		e.FinalRating = r
		e.FinalReflection.Rating = r
	}
	if len(c.Gratitude) > 0 {
		e.Gratitude.Items = c.Gratitude
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&e.DailyReflection.Feelings, c.Feelings)
	set(&e.DailyReflection.Accomplishments, c.Accomplishments)
	set(&e.DailyReflection.Challenges, c.Challenges)
	set(&e.DailyReflection.Learnings, c.Learnings)
	set(&e.FinalReflection.Summary, c.Summary)
	return nil
}

// entryFormModel holds the form's string-typed answers.
type entryFormModel struct {
	Before          string
	After           string
	Ratings         []string
	Gratitude       string
	Feelings        string
	Accomplishments string
	Challenges      string
	Learnings       string
	Summary         string
}

func newEntryFormModel(e models.JournalEntry) *entryFormModel {
	fm := &entryFormModel{
		Before:          render.Rating(e.InitialRating),
		After:           render.Rating(e.FinalRating),
		Ratings:         make([]string, len(e.Habits)),
		Gratitude:       strings.Join(e.Gratitude.Items, "\n"),
		Feelings:        e.DailyReflection.Feelings,
		Accomplishments: e.DailyReflection.Accomplishments,
		Challenges:      e.DailyReflection.Challenges,
		Learnings:       e.DailyReflection.Learnings,
		Summary:         e.FinalReflection.Summary,
	}
	for i, h := range e.Habits {
		fm.Ratings[i] = render.Rating(h.Rating)
	}
	return fm
}

func validateRating(s string) error {
	_, err := parseRating(s)
	return err
}

func newEntryForm(fm *entryFormModel, habits []models.HabitSnapshot) *huh.Form {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Mood before journaling (0-5)").
				Value(&fm.Before).
				Validate(validateRating),
		),
	}

	if len(habits) > 0 {
		fields := make([]huh.Field, len(habits))
		for i, h := range habits {
			fields[i] = huh.NewInput().
				Title(fmt.Sprintf("%s (0-5)", h.Name)).
				Description(h.Description).
				Value(&fm.Ratings[i]).
				Validate(validateRating)
		}
		groups = append(groups, huh.NewGroup(fields...).Title("Habits"))
	}

	groups = append(groups,
		huh.NewGroup(
			huh.NewText().
				Title("Gratitude").
				Description("One item per line.").
				Value(&fm.Gratitude),
		),
		huh.NewGroup(
			huh.NewText().Title("How did today feel?").Value(&fm.Feelings),
			huh.NewText().Title("Accomplishments").Value(&fm.Accomplishments),
			huh.NewText().Title("Challenges").Value(&fm.Challenges),
			huh.NewText().Title("Learnings").Value(&fm.Learnings),
		).Title("Reflection"),
		huh.NewGroup(
			huh.NewText().Title("Summary").Value(&fm.Summary),
			huh.NewInput().
				Title("Mood after reflecting (0-5)").
				Value(&fm.After).
				Validate(validateRating),
		),
	)
	return huh.NewForm(groups...)
}

// apply copies the answers into e.
func (fm *entryFormModel) apply(e *models.JournalEntry) error {
	before, err := parseRating(fm.Before)
	if err != nil {
		return err
	}
	after, err := parseRating(fm.After)
	if err != nil {
		return err
	}
	for i := range e.Habits {
		if i >= len(fm.Ratings) {
			break
		}
		r, err := parseRating(fm.Ratings[i])
		if err != nil {
			return fmt.Errorf("%s: %w", e.Habits[i].Name, err)
		}
		e.Habits[i].Rating = r
	}

	e.InitialRating = before
	e.FinalRating = after
	e.FinalReflection.Rating = after
	items := []string{}
	for _, line := range strings.Split(fm.Gratitude, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	e.Gratitude.Items = items
	e.DailyReflection.Feelings = fm.Feelings
	e.DailyReflection.Accomplishments = fm.Accomplishments
	e.DailyReflection.Challenges = fm.Challenges
	e.DailyReflection.Learnings = fm.Learnings
	e.FinalReflection.Summary = fm.Summary
	return nil
}

type EntryShowCmd struct {
	Date string `arg:"" optional:"" help:"Day of the entry (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *EntryShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	entry, err := ctx.Journal.GetEntry(ctx.UserID, date)
	if isNotFound(err) {
		ctx.printf("No entry for %s\n", date)
		return nil
	}
	if err != nil {
		return err
	}
	ctx.println(render.Entry(entry))
	return nil
}

type EntryListCmd struct {
	Limit int `short:"n" help:"Show at most this many of the newest entries. 0 shows all." default:"0"`
}

func (c *EntryListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	entries, err := ctx.Journal.ListEntries(ctx.UserID)
	if err != nil {
		return err
	}
	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	ctx.println(render.Entries(entries, ctx.Now()))
	return nil
}

type EntryDeleteCmd struct {
	Date string `arg:"" help:"Day of the entry (YYYY-MM-DD, today, yesterday)."`
}

func (c *EntryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Journal.DeleteEntry(ctx.UserID, date); err != nil {
		return err
	}
	ctx.printf("Deleted entry for %s\n", date)
	return nil
}
